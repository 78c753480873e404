package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/hanko-blog/internal/config"
	"finitefield.org/hanko-blog/internal/observability"
)

type cli struct {
	envFile string
	cfg     config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "blog",
		Short:         "Serve and render a small Markdown blog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file with local overrides (empty to disable)")

	root.AddCommand(newServeCmd(c), newRenderCmd(c), newLangCmd(c))
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context(), config.WithEnvFile(c.envFile))
	if err != nil {
		return err
	}
	c.cfg = cfg

	if cfg.Dev {
		c.logger, err = observability.NewDevelopmentLogger()
	} else {
		c.logger, err = observability.NewLogger(cfg.Log.Level)
	}
	return err
}
