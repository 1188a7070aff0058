package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/yingtu35/link-checker/internal/config"
	"github.com/yingtu35/link-checker/internal/logger"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	root   *cobra.Command
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
}

func newApp() *app {
	a := &app{v: config.NewViper()}
	a.root = newRootCommand(a)
	return a
}

// Execute runs the command tree and flushes the logger afterwards, also when
// the command failed.
func (a *app) Execute() error {
	defer a.syncLogger()
	return a.root.Execute()
}

func (a *app) syncLogger() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newRootCommand(a *app) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "linkcheck",
		Short:         "Check the links of a single web page",
		Long:          "Open one page in a headless browser, list its links and verify each resolves to a non-error HTTP status.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				a.v.Set("log.level", "debug")
				a.v.Set("log.development", true)
			}
			cfg, err := config.Load(a.v, cfgFile)
			if err != nil {
				return err
			}
			l, err := logger.New(logger.Config{
				Level:       cfg.Log.Level,
				Development: cfg.Log.Development,
				OutputPaths: cfg.Log.OutputPaths,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.cfg = cfg
			a.logger = l
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("base-url", "", "base URL of the site")
	flags.String("path", "", "path of the page under test")
	flags.String("domain", "", "reference domain for internal/external classification")
	flags.String("engine", "", "page engine: dynamic (playwright) or static (plain HTTP)")
	flags.Bool("headless", true, "run the browser headless")

	bindings := map[string]string{
		"base_url":         "base-url",
		"target_path":      "path",
		"reference_domain": "domain",
		"engine":           "engine",
		"headless":         "headless",
	}
	for key, flag := range bindings {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(newLoadCommand(a))
	rootCmd.AddCommand(newLinksCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	return rootCmd
}
