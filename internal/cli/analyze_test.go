package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func runCLI(t *testing.T, args ...string) AnalyzeReport {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())

	var report AnalyzeReport
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report), out.String())

	return report
}

func TestAnalyze_Approved(t *testing.T) {
	jpeg := testutil.WithEXIF(
		testutil.EncodeJPEG(testutil.Stripes(240, 160, 4, 60, 200)),
		testutil.TIFF(testutil.EXIF{
			DateTimeOriginal: "2024:03:15 11:50:00",
			Model:            "Pixel 8",
			Lat:              testutil.Float(40.7128),
			Lng:              testutil.Float(-74.006),
		}),
	)
	path := writeFile(t, "front.jpg", jpeg)

	report := runCLI(t, "analyze", path,
		"--lat", "40.7128", "--lng", "-74.006",
		"--at", "2024-03-15T12:00:00Z",
	)

	assert.Equal(t, path, report.File)
	require.NotNil(t, report.Metadata.CapturedAt)
	assert.Equal(t, "2024-03-15T11:50:00Z", *report.Metadata.CapturedAt)
	require.NotNil(t, report.Metadata.DeviceModel)
	assert.Equal(t, "Pixel 8", *report.Metadata.DeviceModel)

	assert.Empty(t, report.Verdict.MetadataFailures)
	assert.Empty(t, report.Verdict.Issues)
	assert.Equal(t, entity.QCApproved, report.Verdict.Status)
	assert.Contains(t, report.Notes, "QC results:")
}

func TestAnalyze_NoMetadata(t *testing.T) {
	path := writeFile(t, "plain.png", testutil.EncodePNG(testutil.Stripes(120, 80, 4, 60, 200)))

	report := runCLI(t, "analyze", path)

	assert.Nil(t, report.Metadata.CapturedAt)
	assert.Equal(t, []string{
		"Missing capture timestamp metadata",
		"Missing device model metadata",
		"Missing GPS metadata",
	}, report.Verdict.MetadataFailures)
	assert.Equal(t, entity.QCRejected, report.Verdict.Status)
}

func TestAnalyze_ZeroBrightnessMin(t *testing.T) {
	path := writeFile(t, "night.png", testutil.EncodePNG(testutil.Uniform(64, 64, 0)))

	dflt := runCLI(t, "analyze", path)
	assert.True(t, dflt.Verdict.Quality.Brightness.IsTooDark)

	report := runCLI(t, "analyze", path, "--brightness-min", "0")
	assert.False(t, report.Verdict.Quality.Brightness.IsTooDark)
	assert.Zero(t, report.Verdict.Quality.Brightness.Min)
}

func TestAnalyze_Undecodable(t *testing.T) {
	path := writeFile(t, "broken.jpg", []byte("definitely not an image"))

	report := runCLI(t, "analyze", path)

	assert.True(t, report.Verdict.Quality.Undecodable)
	assert.Equal(t, entity.QCRejected, report.Verdict.Status)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"analyze", filepath.Join(t.TempDir(), "nope.jpg")}},
		{"bad time", []string{"analyze", writeFile(t, "a.jpg", []byte("x")), "--at", "yesterday"}},
		{"no args", []string{"analyze"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := NewRootCmd()
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)
			assert.Error(t, cmd.Execute())
		})
	}
}
