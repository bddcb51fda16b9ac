// Package config loads and validates a run's flat Parameters struct: the
// physical/parametric grid extent, polynomial order, integration method,
// and the numerical tolerances spec.md's §6 table names. Loading follows
// the teacher's own layering: a YAML file parsed with ghodss/yaml,
// overlaid with environment variables via viper, with ~-expansion on
// path fields via go-homedir.
package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// IntegrationMethod selects the §4.7 cubature branch for a fully-inside
// cell.
type IntegrationMethod string

const (
	Gauss       IntegrationMethod = "Gauss"
	GGQOptimal  IntegrationMethod = "GGQ_Optimal"
	GGQReduced1 IntegrationMethod = "GGQ_Reduced1"
	GGQReduced2 IntegrationMethod = "GGQ_Reduced2"
)

// Parameters is the flat set of options a run needs, one field per row of
// spec.md §6's table.
type Parameters struct {
	InputFilename string `json:"input_filename"`

	LowerBoundXYZ [3]float64 `json:"lower_bound_xyz"`
	UpperBoundXYZ [3]float64 `json:"upper_bound_xyz"`
	LowerBoundUVW [3]float64 `json:"lower_bound_uvw"`
	UpperBoundUVW [3]float64 `json:"upper_bound_uvw"`

	NumberOfElements [3]int `json:"number_of_elements"`
	PolynomialOrder  [3]int `json:"polynomial_order"`

	IntegrationMethod IntegrationMethod `json:"integration_method"`

	EmbeddingFlag bool `json:"embedding_flag"`

	MinElementVolumeRatio      float64 `json:"min_element_volume_ratio"`
	MinNumBoundaryTriangles    int     `json:"min_num_boundary_triangles"`
	MomentFittingResidual      float64 `json:"moment_fitting_residual"`
	InitPointDistributionFactor int    `json:"init_point_distribution_factor"`
	NeglectElementsIfMeshFlawed bool   `json:"neglect_elements_if_mesh_is_flawed"`

	BSplineMesh bool `json:"b_spline_mesh"`

	EchoLevel          int    `json:"echo_level"`
	OutputDirectoryName string `json:"output_directory_name"`
}

// Defaults mirrors InputParameters2D's role of establishing sane values
// before a YAML file is parsed over top of them.
func Defaults() Parameters {
	return Parameters{
		PolynomialOrder:             [3]int{2, 2, 2},
		IntegrationMethod:           Gauss,
		EmbeddingFlag:               true,
		MinElementVolumeRatio:       1e-3,
		MinNumBoundaryTriangles:     500,
		MomentFittingResidual:       1e-4,
		InitPointDistributionFactor: 2,
		EchoLevel:                   1,
		OutputDirectoryName:         "output",
	}
}

// Parse decodes YAML bytes into p, the same role InputParameters2D.Parse
// plays for the teacher's solver input.
func (p *Parameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, p)
}

// Marshal encodes p back to YAML, used by `quadgen inspect --dump-config`.
func (p *Parameters) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// Load reads filename, unmarshals YAML over Defaults(), overlays any
// EMBED_-prefixed environment variables via viper, expands a leading ~ in
// path fields, and validates the result.
func Load(filename string) (Parameters, error) {
	p := Defaults()

	data, err := os.ReadFile(filename)
	if err != nil {
		return Parameters{}, fmt.Errorf("config: read %s: %w", filename, err)
	}
	if err := p.Parse(data); err != nil {
		return Parameters{}, fmt.Errorf("config: parse %s: %w", filename, err)
	}

	overlayEnv(&p)

	expanded, err := homedir.Expand(p.InputFilename)
	if err != nil {
		return Parameters{}, fmt.Errorf("config: expand input_filename: %w", err)
	}
	p.InputFilename = expanded

	expanded, err = homedir.Expand(p.OutputDirectoryName)
	if err != nil {
		return Parameters{}, fmt.Errorf("config: expand output_directory_name: %w", err)
	}
	p.OutputDirectoryName = expanded

	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// overlayEnv merges EMBED_-prefixed environment variables over p's
// already-parsed YAML values, e.g. EMBED_ECHO_LEVEL=3 overrides
// echo_level regardless of what the file said.
func overlayEnv(p *Parameters) {
	v := viper.New()
	v.SetEnvPrefix("EMBED")
	v.AutomaticEnv()

	if v.IsSet("ECHO_LEVEL") {
		p.EchoLevel = v.GetInt("ECHO_LEVEL")
	}
	if v.IsSet("OUTPUT_DIRECTORY_NAME") {
		p.OutputDirectoryName = v.GetString("OUTPUT_DIRECTORY_NAME")
	}
	if v.IsSet("INPUT_FILENAME") {
		p.InputFilename = v.GetString("INPUT_FILENAME")
	}
	if v.IsSet("EMBEDDING_FLAG") {
		p.EmbeddingFlag = v.GetBool("EMBEDDING_FLAG")
	}
}

// Validate checks the invariants spec.md's table implies but a bare
// struct can't enforce, mirroring InputParameters2D.Print()'s role of
// surfacing misconfiguration before a run starts.
func (p *Parameters) Validate() error {
	if p.InputFilename == "" {
		return fmt.Errorf("config: input_filename is required")
	}
	for axis := 0; axis < 3; axis++ {
		if p.UpperBoundXYZ[axis] <= p.LowerBoundXYZ[axis] {
			return fmt.Errorf("config: upper_bound_xyz[%d] must exceed lower_bound_xyz[%d]", axis, axis)
		}
		if p.NumberOfElements[axis] < 1 {
			return fmt.Errorf("config: number_of_elements[%d] must be >= 1", axis)
		}
		if p.PolynomialOrder[axis] < 1 || p.PolynomialOrder[axis] > 4 {
			return fmt.Errorf("config: polynomial_order[%d] must be in [1,4]", axis)
		}
	}
	switch p.IntegrationMethod {
	case Gauss, GGQOptimal, GGQReduced1, GGQReduced2:
	default:
		return fmt.Errorf("config: unknown integration_method %q", p.IntegrationMethod)
	}
	if p.MinElementVolumeRatio < 0 {
		return fmt.Errorf("config: min_element_volume_ratio must be >= 0")
	}
	if !p.BSplineMesh {
		if p.LowerBoundUVW == ([3]float64{}) && p.UpperBoundUVW == ([3]float64{}) {
			p.LowerBoundUVW = p.LowerBoundXYZ
			p.UpperBoundUVW = p.UpperBoundXYZ
		}
	}
	return nil
}

// Log prints diagnostic lines gated by echo_level, mirroring
// InputParameters2D.Print()'s unconditional fmt.Printf reporting but
// with the verbosity gate spec.md's echo_level option adds.
func (p *Parameters) Log(minLevel int, format string, args ...interface{}) {
	if p.EchoLevel < minLevel {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
