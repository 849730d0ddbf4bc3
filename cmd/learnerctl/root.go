package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/insightify/pkg/logger"
)

func newRootCommand(opts ...contextOption) *cobra.Command {
	ctx := newCommandContext(opts...)
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "learnerctl",
		Short:         "Inspect learner features and cluster assignments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			return logger.SetLevelString(level)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.modelFlag, "model", "", "Model artifact path (overrides model_path)")
	rootCmd.PersistentFlags().StringVar(&ctx.uriFlag, "mongo-uri", "", "MongoDB connection string (overrides mongo_uri)")
	rootCmd.PersistentFlags().StringVar(&ctx.dbFlag, "database", "", "MongoDB database (overrides mongo_database)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline steps to stderr")

	rootCmd.AddCommand(newFeaturesCommand(ctx))
	rootCmd.AddCommand(newInferCommand(ctx))
	rootCmd.AddCommand(newModelCommand(ctx))

	return rootCmd
}
