package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"isit-trivia/internal/config"
	"isit-trivia/internal/logging"
)

type rootOptions struct {
	port       string
	configPath string
	verbose    bool
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	v := viper.New()
	v.SetEnvPrefix("ISIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "isit",
		Short:        "Category guessing trivia server and quiz data tools",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindEnv(v, cmd.Flags())
			return nil
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&opts.port, "port", "", "port to listen on, overrides server.port (env: ISIT_PORT)")
	fs.StringVar(&opts.configPath, "config", "config/config.yaml", "path to YAML config (env: ISIT_CONFIG)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging (env: ISIT_VERBOSE)")

	cmd.AddCommand(NewStartCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	cmd.AddCommand(NewImportCmd(opts))
	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewLintCmd())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	return cmd
}

// bindEnv fills flags the user did not pass from ISIT_* variables.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

// loadConfig reads the config file and builds the logger it describes.
func loadConfig(opts *rootOptions) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, nil, err
	}
	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Development)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}
