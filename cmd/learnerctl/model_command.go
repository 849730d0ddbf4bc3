package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newModelCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "model",
		Short: "Describe the cluster model artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			bundle, err := ctx.loadModel(cmd.Context())
			if err != nil {
				return err
			}
			s := bundle.Summary()
			if format == formatJSON {
				return writeJSON(cmd, s)
			}

			clusters := make([]string, len(s.Clusters))
			for i, c := range s.Clusters {
				clusters[i] = strconv.Itoa(c)
			}
			rows := [][]string{
				{"Path", s.Path},
				{"Version", s.Version},
				{"Interpretation", s.InterpretationVersion},
				{"Family", s.Family},
				{"Strategy", s.Strategy},
				{"Scaler", s.Scaler},
				{"Features", strings.Join(s.Features, ", ")},
				{"Clusters", strings.Join(clusters, ", ")},
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	return cmd
}
