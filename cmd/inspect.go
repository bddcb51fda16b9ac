package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/embedquad/quadgen/brep"
	"github.com/embedquad/quadgen/config"
	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/pipeline"
	"github.com/embedquad/quadgen/stlio"
	"github.com/notargets/avs/chart2d"
	avsutils "github.com/notargets/avs/utils"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Run classification and report or plot the result without writing VTK output",
	Long: `inspect loads a run's parameter file, classifies the background grid
against its surface mesh, and either dumps the effective configuration or
opens an interactive cross-section plot of the classified cells, without
writing the VTK files run does.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("config", "", "path to the run's YAML parameter file (required)")
	inspectCmd.Flags().Bool("dump-config", false, "print the effective configuration as YAML and exit")
	inspectCmd.Flags().Bool("plot", false, "open an interactive plot of a z=const cross-section")
	inspectCmd.Flags().Float64("plot-z", math.NaN(), "z coordinate of the cross-section plane (defaults to the grid midplane)")
	_ = inspectCmd.MarkFlagRequired("config")
}

func runInspect(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	dumpConfig, _ := cmd.Flags().GetBool("dump-config")
	doPlot, _ := cmd.Flags().GetBool("plot")
	plotZ, _ := cmd.Flags().GetFloat64("plot-z")

	params, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if dumpConfig {
		data, err := params.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
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

	op := brep.NewOperator(surfaceMesh)
	result, err := pipeline.Run(params, op)
	if err != nil {
		return fmt.Errorf("cmd: run pipeline: %w", err)
	}
	fmt.Printf("inside=%d trimmed=%d outside=%d skipped=%d\n",
		result.NumInside, result.NumTrimmed, result.NumOutside, result.NumSkipped)

	if !doPlot {
		return nil
	}
	if math.IsNaN(plotZ) {
		plotZ = (params.LowerBoundXYZ[2] + params.UpperBoundXYZ[2]) / 2
	}
	plotCrossSection(params, result, plotZ)
	return nil
}

// plotCrossSection draws every cell whose box straddles z=plotZ as a
// scatter point colored by classification.
func plotCrossSection(params config.Parameters, result pipeline.Result, plotZ float64) {
	chart := chart2d.NewChart2D(800, 800,
		float32(params.LowerBoundXYZ[0]), float32(params.UpperBoundXYZ[0]),
		float32(params.LowerBoundXYZ[1]), float32(params.UpperBoundXYZ[1]))
	colors := avsutils.NewColorMap(0, 1, 1)

	var insideX, insideY, trimmedX, trimmedY []float64
	result.Container.Range(func(id int, e *element.Element) bool {
		if e.PhysicalBox.Lower.Z > plotZ || e.PhysicalBox.Upper.Z < plotZ {
			return true
		}
		center := e.PhysicalBox.Center()
		if e.IsTrimmed {
			trimmedX = append(trimmedX, center.X)
			trimmedY = append(trimmedY, center.Y)
		} else {
			insideX = append(insideX, center.X)
			insideY = append(insideY, center.Y)
		}
		return true
	})

	go chart.Plot()
	if len(insideX) > 0 {
		if err := chart.AddSeries("inside", insideX, insideY, chart2d.CrossGlyph, chart2d.NoLine, colors.GetRGB(0)); err != nil {
			params.Log(1, "cmd: plot inside series: %v", err)
		}
	}
	if len(trimmedX) > 0 {
		if err := chart.AddSeries("trimmed", trimmedX, trimmedY, chart2d.CrossGlyph, chart2d.NoLine, colors.GetRGB(1)); err != nil {
			params.Log(1, "cmd: plot trimmed series: %v", err)
		}
	}
}
