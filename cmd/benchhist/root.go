package main

import (
	"strings"

	bench "github.com/fjl/benchhist"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries the configuration shared by all commands.
type app struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	def := bench.DefaultConfig()
	setDefaults(a.v, def)

	root := &cobra.Command{
		Use:   "benchhist",
		Short: "Aggregate benchmark result files into histogram reports",
		Long: `benchhist collects the benchmark result files of a directory, merges the
most recent versions of every benchmark title and renders them as a clustered
histogram report.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.readConfigFile(); err != nil {
				return err
			}
			return setupLogging(a.v.GetString("log_level"))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (yaml, toml or json)")
	pf.String("dir", def.ResultDirectory, "directory holding the result files")
	pf.String("prefix", def.FilenamePrefix, "result file name prefix")
	pf.Int("versions", def.MaxVersionsPerTitle, "max result files merged per title, 0 for no limit")
	pf.String("order", def.Order, "result files merged first per title (newest, oldest)")
	pf.String("temp-dir", def.TempDir, "directory for merged temporary files")
	pf.String("log-level", "info", "log level (debug, info, warning, error)")
	a.bind(pf, "result_directory", "dir")
	a.bind(pf, "filename_prefix", "prefix")
	a.bind(pf, "max_versions_per_title", "versions")
	a.bind(pf, "order", "order")
	a.bind(pf, "temp_dir", "temp-dir")
	a.bind(pf, "log_level", "log-level")

	root.AddCommand(a.plotCmd(), a.listCmd(), a.statCmd())
	return root
}

func (a *app) bind(fs *pflag.FlagSet, key, flag string) {
	if err := a.v.BindPFlag(key, fs.Lookup(flag)); err != nil {
		panic(err)
	}
}

func (a *app) readConfigFile() error {
	a.v.SetEnvPrefix("benchhist")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()
	if a.cfgFile == "" {
		return nil
	}
	a.v.SetConfigFile(a.cfgFile)
	return errors.Wrapf(a.v.ReadInConfig(), "reading config file %s", a.cfgFile)
}

// config returns the validated configuration from defaults, config file,
// environment and flags.
func (a *app) config() (bench.Config, error) {
	cfg := bench.DefaultConfig()
	if err := a.v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decoding configuration")
	}
	return cfg, errors.Wrap(cfg.Validate(), "invalid configuration")
}

func setupLogging(name string) error {
	lvl := level.FromString(name)
	if lvl == level.Invalid {
		return errors.Errorf("invalid log level %q", name)
	}
	sender, err := send.NewNativeLogger("benchhist", send.LevelInfo{Default: level.Info, Threshold: lvl})
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}
	return grip.SetSender(sender)
}

// setDefaults registers every configuration key so that config files and
// BENCHHIST_* environment variables can override it.
func setDefaults(v *viper.Viper, cfg bench.Config) {
	defaults := map[string]interface{}{
		"log_level":              "info",
		"result_directory":       cfg.ResultDirectory,
		"filename_prefix":        cfg.FilenamePrefix,
		"max_versions_per_title": cfg.MaxVersionsPerTitle,
		"order":                  cfg.Order,
		"temp_dir":               cfg.TempDir,
		"max_line_size":          cfg.MaxLineSize,
		"comma":                  cfg.Comma,
		"output_name":            cfg.OutputName,

		"columns.x":              cfg.Columns.X,
		"columns.group":          cfg.Columns.Group,
		"columns.value":          cfg.Columns.Value,
		"columns.value_analyzer": cfg.Columns.ValueAnalyzer,
		"columns.exclude":        cfg.Columns.Exclude,
		"columns.exclude_value":  cfg.Columns.ExcludeValue,

		"layout.x_label":        cfg.Layout.XLabel,
		"layout.y_label":        cfg.Layout.YLabel,
		"layout.legend_top":     cfg.Layout.LegendTop,
		"layout.colorize":       cfg.Layout.Colorize,
		"layout.font":           cfg.Layout.Font,
		"layout.font_size":      cfg.Layout.FontSize,
		"layout.rotate_x_ticks": cfg.Layout.RotateXTicks,
		"layout.size":           cfg.Layout.Size,
		"layout.min_y":          cfg.Layout.MinY,
		"layout.log_y":          cfg.Layout.LogY,
		"layout.print_values":   cfg.Layout.PrintValues,

		"render.format":    cfg.Render.Format,
		"render.width_cm":  cfg.Render.WidthCM,
		"render.height_cm": cfg.Render.HeightCM,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
