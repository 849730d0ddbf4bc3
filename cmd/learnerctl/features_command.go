package main

import (
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/okian/insightify/internal/app"
	"github.com/okian/insightify/internal/domain/model"
)

func newFeaturesCommand(ctx *commandContext) *cobra.Command {
	var userID, format string

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Print the derived feature vector of a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
				return err
			}
			return ctx.withService(cmd.Context(), false, func(svc *app.Service) error {
				fv, err := svc.Features(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return printFeatures(cmd, format, userID, fv)
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Learner ObjectID (hex)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or csv")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printFeatures(cmd *cobra.Command, format, userID string, fv model.FeatureVector) error {
	values := fv.Values()
	switch format {
	case formatJSON:
		return writeJSON(cmd, struct {
			UserID   string              `json:"user_id"`
			Features model.FeatureVector `json:"features"`
		}{userID, fv})
	case formatCSV:
		header := append([]string{"user_id"}, model.FeatureNames[:]...)
		row := []string{userID}
		for _, v := range values {
			row = append(row, formatFloat(v))
		}
		return writeCSV(cmd, header, [][]string{row})
	default:
		rows := make([][]string, 0, len(values))
		for i, v := range values {
			rows = append(rows, []string{model.FeatureNames[i], formatFloat(v)})
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Feature", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
		return err
	}
}
