package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
input_filename: mesh.stl
lower_bound_xyz: [0, 0, 0]
upper_bound_xyz: [1, 1, 1]
number_of_elements: [4, 4, 4]
polynomial_order: [2, 2, 2]
integration_method: Gauss
echo_level: 2
output_directory_name: out
`

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesAndValidatesSampleFile(t *testing.T) {
	path := writeTempYAML(t, sampleYAML)
	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mesh.stl", p.InputFilename)
	assert.Equal(t, [3]int{4, 4, 4}, p.NumberOfElements)
	assert.Equal(t, Gauss, p.IntegrationMethod)
	assert.Equal(t, 2, p.EchoLevel)
	// b_spline_mesh defaults false, so parametric box should mirror physical.
	assert.Equal(t, p.LowerBoundXYZ, p.LowerBoundUVW)
	assert.Equal(t, p.UpperBoundXYZ, p.UpperBoundUVW)
}

func TestLoadRejectsMissingInputFilename(t *testing.T) {
	path := writeTempYAML(t, "upper_bound_xyz: [1,1,1]\nnumber_of_elements: [1,1,1]\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadPolynomialOrder(t *testing.T) {
	path := writeTempYAML(t, `
input_filename: mesh.stl
upper_bound_xyz: [1, 1, 1]
number_of_elements: [1, 1, 1]
polynomial_order: [5, 1, 1]
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverlayOverridesEchoLevel(t *testing.T) {
	path := writeTempYAML(t, sampleYAML)
	t.Setenv("EMBED_ECHO_LEVEL", "5")

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, p.EchoLevel)
}

func TestMarshalRoundTrips(t *testing.T) {
	p := Defaults()
	p.InputFilename = "x.stl"
	p.UpperBoundXYZ = [3]float64{2, 2, 2}
	p.NumberOfElements = [3]int{3, 3, 3}

	data, err := p.Marshal()
	require.NoError(t, err)

	var got Parameters
	require.NoError(t, got.Parse(data))
	assert.Equal(t, p.InputFilename, got.InputFilename)
	assert.Equal(t, p.NumberOfElements, got.NumberOfElements)
}
