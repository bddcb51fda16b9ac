package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/embedquad/quadgen/brep"
	"github.com/embedquad/quadgen/config"
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/ggq"
	"github.com/embedquad/quadgen/momentfitting"
	"github.com/embedquad/quadgen/pipeline"
	"github.com/embedquad/quadgen/stlio"
	"github.com/embedquad/quadgen/trianglemesh"
	"github.com/embedquad/quadgen/vtkio"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var stderr = os.Stderr

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Classify a background grid against a surface mesh and emit cubature rules",
	Long: `run reads a YAML parameter file naming a closed triangular surface
mesh (STL) and a background hexahedral grid extent, classifies every grid
cell, builds a Gauss or moment-fitting cubature rule for each inside or
trimmed cell, and writes the results to output_directory_name as VTK
files.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("config", "", "path to the run's YAML parameter file (required)")
	runCmd.Flags().Bool("profile", false, "wrap the run in a CPU profile written to the output directory")
	runCmd.Flags().Bool("fast-lapack", false, "use the cgo-linked netlib BLAS backend instead of pure-Go gonum")
	_ = runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	doProfile, _ := cmd.Flags().GetBool("profile")
	fastLapack, _ := cmd.Flags().GetBool("fast-lapack")

	params, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if fastLapack {
		enableFastLapack()
	}

	if err := os.MkdirAll(params.OutputDirectoryName, 0o755); err != nil {
		return fmt.Errorf("cmd: create output directory: %w", err)
	}

	if doProfile {
		stopper := profile.Start(profile.CPUProfile, profile.ProfilePath(params.OutputDirectoryName))
		defer stopper.Stop()
	}

	meshFile, err := os.Open(params.InputFilename)
	if err != nil {
		return fmt.Errorf("cmd: open %s: %w", params.InputFilename, err)
	}
	surfaceMesh, err := stlio.Read(meshFile)
	meshFile.Close()
	if err != nil {
		return fmt.Errorf("cmd: read %s: %w", params.InputFilename, err)
	}

	params.Log(1, "quadgen: loaded surface mesh with %d triangles", surfaceMesh.NumTriangles())
	op := brep.NewOperator(surfaceMesh)

	result, err := pipeline.Run(params, op)
	if err != nil {
		return fmt.Errorf("cmd: run pipeline: %w", err)
	}
	params.Log(1, "quadgen: classified %d inside, %d trimmed, %d outside, %d skipped",
		result.NumInside, result.NumTrimmed, result.NumOutside, result.NumSkipped)

	if params.IntegrationMethod != config.Gauss {
		assembleReducedRules(params, result)
	}

	return writeOutputs(params, surfaceMesh, result)
}

func writeOutputs(params config.Parameters, surfaceMesh *trianglemesh.TriangleMesh, result pipeline.Result) error {
	if err := writeVTKFile(filepath.Join(params.OutputDirectoryName, "surface.vtk"), func(f *os.File) error {
		return vtkio.WriteMesh(f, surfaceMesh)
	}); err != nil {
		return err
	}
	if err := writeVTKFile(filepath.Join(params.OutputDirectoryName, "elements.vtk"), func(f *os.File) error {
		return vtkio.WriteElements(f, result.Container)
	}); err != nil {
		return err
	}

	var points []element.IntegrationPoint
	result.Container.Range(func(_ int, e *element.Element) bool {
		points = append(points, e.Points...)
		return true
	})
	if err := writeVTKFile(filepath.Join(params.OutputDirectoryName, "points.vtk"), func(f *os.File) error {
		return vtkio.WriteIntegrationPoints(f, points)
	}); err != nil {
		return err
	}

	params.Log(1, "quadgen: wrote %d integration points to %s", len(points), params.OutputDirectoryName)
	return nil
}

func writeVTKFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cmd: create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("cmd: write %s: %w", path, err)
	}
	return nil
}

// assembleReducedRules runs the GGQ post-pass: every axis-aligned strip
// of contiguous inside cells gets its per-cell tensor rules replaced by
// one reduced rule shared across the strip.
func assembleReducedRules(params config.Parameters, result pipeline.Result) {
	orders := momentFittingOrders(params)
	boundaryOrder := 2
	for _, axis := range []element.Direction{element.DirXPlus, element.DirYPlus, element.DirZPlus} {
		strips := ggq.FindStrips(result.Container, axis)
		for _, s := range strips {
			r := ggq.Assemble(s, orders, boundaryOrder, params.InitPointDistributionFactor, params.MomentFittingResidual)
			if len(r.Points) == 0 {
				continue
			}
			for _, e := range s.Elements {
				e.Points = r.Points
			}
		}
	}
}

func momentFittingOrders(params config.Parameters) momentfitting.Orders {
	return momentfitting.Orders{U: params.PolynomialOrder[0], V: params.PolynomialOrder[1], W: params.PolynomialOrder[2]}
}
