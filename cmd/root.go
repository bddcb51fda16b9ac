// Package cmd wires the config, brep, pipeline, stlio and vtkio packages
// into the two subcommands a run needs: `run`, which produces cubature
// rules from a surface mesh and a YAML parameter file, and `inspect`,
// which loads the same parameter file, reruns classification without
// writing VTK output, and reports or plots the result. The
// command tree itself follows the teacher's cobra layout, generalized
// from its orphaned two-solver (1D/2D) split into this preprocessor's
// two-verb split.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quadgen",
	Short: "Embedded cubature preprocessor for immersed finite-element analysis",
	Long: `quadgen classifies a background hexahedral grid against a closed
triangular surface mesh and produces per-cell cubature rules, either by
tensor-product Gauss quadrature on fully interior cells or by
divergence-theorem moment fitting on cells cut by the surface.`,
}

// Execute runs the root command, exiting the process on error the way
// the teacher's own main.go panics on a bad flag.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
}
