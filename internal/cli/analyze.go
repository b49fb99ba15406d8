package cli

import (
	"fmt"
	"time"

	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/metadata"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/processor"
	"github.com/andreyxaxa/Photo-QC/internal/infrastructure/quality"
	"github.com/andreyxaxa/Photo-QC/internal/usecase/photoqc"
	"github.com/andreyxaxa/Photo-QC/pkg/bytesource"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type analyzeOptions struct {
	lat, lng   float64
	at         string
	freshness  time.Duration
	geofenceKM float64
	thresholds quality.Thresholds
}

// MetadataReport is the extracted metadata as printed by analyze.
type MetadataReport struct {
	CapturedAt  *string  `yaml:"captured_at,omitempty"`
	DeviceModel *string  `yaml:"device_model,omitempty"`
	GPSLat      *float64 `yaml:"gps_lat,omitempty"`
	GPSLng      *float64 `yaml:"gps_lng,omitempty"`
}

// AnalyzeReport is the YAML document written by analyze.
type AnalyzeReport struct {
	File     string         `yaml:"file"`
	Metadata MetadataReport `yaml:"metadata"`
	Verdict  entity.Verdict `yaml:"verdict"`
	Notes    string         `yaml:"notes"`
}

func newAnalyzeCmd() *cobra.Command {
	o := analyzeOptions{thresholds: quality.DefaultThresholds()}

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Score a photo and print the QC verdict as YAML",
		Long: `Extracts capture metadata, runs the blur, brightness and glare checks and
prints the verdict. --lat and --lng stand in for the property position; without
both the geofence check is skipped. The exit code does not depend on the verdict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], o)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&o.lat, "lat", 0, "property latitude")
	f.Float64Var(&o.lng, "lng", 0, "property longitude")
	f.StringVar(&o.at, "at", "", "evaluate freshness as of this RFC3339 time (default now)")
	f.DurationVar(&o.freshness, "freshness", 30*time.Minute, "maximum capture age")
	f.Float64Var(&o.geofenceKM, "geofence-km", 0.5, "maximum distance from the property")
	f.Float64Var(&o.thresholds.Blur, "blur-threshold", o.thresholds.Blur, "minimum Laplacian variance")
	f.Float64Var(&o.thresholds.BrightnessMin, "brightness-min", o.thresholds.BrightnessMin, "minimum mean luminance")
	f.Float64Var(&o.thresholds.BrightnessMax, "brightness-max", o.thresholds.BrightnessMax, "maximum mean luminance")
	f.Float64Var(&o.thresholds.Glare, "glare-threshold", o.thresholds.Glare, "maximum glare percentage")

	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, o analyzeOptions) error {
	now := time.Now().UTC()
	if o.at != "" {
		t, err := time.Parse(time.RFC3339, o.at)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		now = t.UTC()
	}

	var loc *entity.PropertyLocation
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
		loc = &entity.PropertyLocation{Lat: &o.lat, Lng: &o.lng}
	}

	src, err := bytesource.FromFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	md := metadata.NewExtractor().Extract(src)

	analyzer := quality.New(quality.WithThresholds(o.thresholds))

	var report entity.QualityReport
	img, err := processor.New().Decode(src.Bytes())
	if err != nil {
		report = analyzer.UndecodableReport(err)
	} else {
		report = analyzer.Analyze(img)
	}

	validator := photoqc.NewValidator(
		photoqc.WithClock(func() time.Time { return now }),
		photoqc.FreshnessWindow(o.freshness),
		photoqc.GeofenceRadiusKM(o.geofenceKM),
	)
	verdict := photoqc.Decide(report, validator.Validate(md, loc))

	out := AnalyzeReport{
		File:     path,
		Metadata: newMetadataReport(md),
		Verdict:  verdict,
		Notes:    photoqc.Notes(verdict),
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()

	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

func newMetadataReport(md entity.Metadata) MetadataReport {
	r := MetadataReport{
		DeviceModel: md.DeviceModel.Ptr(),
		GPSLat:      md.GPSLat.Ptr(),
		GPSLng:      md.GPSLng.Ptr(),
	}

	if at, ok := md.CapturedAt.Get(); ok {
		s := at.UTC().Format(time.RFC3339)
		r.CapturedAt = &s
	}

	return r
}
