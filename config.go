package bench

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Config holds all settings of a report run. Field tags are the keys used in
// config files and environment variables.
type Config struct {
	ResultDirectory     string `mapstructure:"result_directory"`
	FilenamePrefix      string `mapstructure:"filename_prefix"`
	MaxVersionsPerTitle int    `mapstructure:"max_versions_per_title"`
	Order               string `mapstructure:"order"`
	TempDir             string `mapstructure:"temp_dir"`
	MaxLineSize         string `mapstructure:"max_line_size"`
	Comma               string `mapstructure:"comma"`
	OutputName          string `mapstructure:"output_name"`

	Columns Columns      `mapstructure:"columns"`
	Layout  Layout       `mapstructure:"layout"`
	Render  RenderConfig `mapstructure:"render"`
}

// Columns names the CSV columns a series is built from.
type Columns struct {
	X             string `mapstructure:"x"`
	Group         string `mapstructure:"group"`
	Value         string `mapstructure:"value"`
	ValueAnalyzer string `mapstructure:"value_analyzer"`
	Exclude       string `mapstructure:"exclude"`
	ExcludeValue  string `mapstructure:"exclude_value"`
}

// RenderConfig is the output document format and page size.
type RenderConfig struct {
	Format   string  `mapstructure:"format"`
	WidthCM  float64 `mapstructure:"width_cm"`
	HeightCM float64 `mapstructure:"height_cm"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		ResultDirectory:     "build/junitReports",
		FilenamePrefix:      "benchmark_",
		MaxVersionsPerTitle: 5,
		Order:               OrderNewest.String(),
		MaxLineSize:         "1mb",
		Comma:               ";",
		OutputName:          "result",
		Columns: Columns{
			X:             "Testid",
			Group:         "Git commit",
			Value:         "Execution time",
			ValueAnalyzer: "Arithmetic Mean",
			Exclude:       "Version",
			ExcludeValue:  "select all",
		},
		Layout: DefaultLayout(),
		Render: RenderConfig{Format: "pdf", WidthCM: 15, HeightCM: 10},
	}
}

// Validate checks that cfg can be used for a run.
func (cfg *Config) Validate() error {
	switch {
	case cfg.ResultDirectory == "":
		return errors.New("result directory is not set")
	case cfg.FilenamePrefix == "":
		return errors.New("filename prefix is not set")
	case cfg.MaxVersionsPerTitle < 0:
		return errors.Errorf("invalid max versions per title %d", cfg.MaxVersionsPerTitle)
	case cfg.OutputName == "":
		return errors.New("output name is not set")
	case utf8.RuneCountInString(cfg.Comma) != 1:
		return errors.Errorf("comma must be a single character, got %q", cfg.Comma)
	case cfg.Columns.X == "" || cfg.Columns.Group == "" || cfg.Columns.Value == "":
		return errors.New("x, group and value columns must be set")
	case cfg.Layout.Size <= 0:
		return errors.Errorf("invalid layout size %v", cfg.Layout.Size)
	case cfg.Render.WidthCM <= 0 || cfg.Render.HeightCM <= 0:
		return errors.Errorf("invalid page size %vx%v cm", cfg.Render.WidthCM, cfg.Render.HeightCM)
	}
	if _, err := ParseOrder(cfg.Order); err != nil {
		return err
	}
	if _, err := ParseSize(cfg.MaxLineSize); err != nil {
		return errors.Wrap(err, "max line size")
	}
	return nil
}

// Aggregator returns the aggregator configured by cfg.
func (cfg *Config) Aggregator() (*Aggregator, error) {
	order, err := ParseOrder(cfg.Order)
	if err != nil {
		return nil, err
	}
	a := &Aggregator{
		Prefix:  cfg.FilenamePrefix,
		Cap:     cfg.MaxVersionsPerTitle,
		Order:   order,
		TempDir: cfg.TempDir,
	}
	if cfg.MaxLineSize != "" {
		if a.MaxLineSize, err = ParseSize(cfg.MaxLineSize); err != nil {
			return nil, errors.Wrap(err, "max line size")
		}
	}
	return a, nil
}

// SeriesConfig returns the column selection configured by cfg.
func (cfg *Config) SeriesConfig() SeriesConfig {
	sc := SeriesConfig{
		X:            Field{Name: cfg.Columns.X},
		Group:        Field{Name: cfg.Columns.Group},
		Value:        Field{Name: cfg.Columns.Value, Analyzer: cfg.Columns.ValueAnalyzer},
		Exclude:      Field{Name: cfg.Columns.Exclude},
		ExcludeValue: cfg.Columns.ExcludeValue,
	}
	sc.Comma, _ = utf8.DecodeRuneInString(cfg.Comma)
	return sc
}

// OutputPath is the report path without its format extension.
func (cfg *Config) OutputPath() string {
	return filepath.Join(cfg.ResultDirectory, cfg.OutputName)
}
