package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/glossa/internal/app"
	"github.com/bobmcallan/glossa/internal/common"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "glossa",
		Short: "Glossa - look up glossary terms",
		Long: `Glossa searches a glossary of terms with typo-tolerant matching,
filters by category and starting letter, and shows full definitions.

The glossary source is read from the same configuration as glossa-server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default: $GLOSSA_CONFIG, glossa.toml next to the binary, or config/glossa.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newSearchCmd(opts),
		newShowCmd(opts),
		newCategoriesCmd(opts),
		newSuggestCmd(opts),
		newSeedCmd(opts),
		newTokenCmd(opts),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the configuration selected by the flags.
func (o *options) loadConfig() (*common.Config, error) {
	cfg, err := common.LoadConfig(app.ResolveConfigPath(o.configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (o *options) logger(cfg *common.Config) *common.Logger {
	if !o.verbose {
		return common.NewSilentLogger()
	}
	return common.NewLogger(cfg.Logging.Level)
}

// loadApp initializes the app; the caller must Close it.
func (o *options) loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, o.logger(cfg))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "glossa %s\n", common.GetFullVersion())
		},
	}
}
