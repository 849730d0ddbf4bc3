package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/okian/insightify/internal/app"
	"github.com/okian/insightify/internal/domain/model"
)

func newInferCommand(ctx *commandContext) *cobra.Command {
	var userID, format string

	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Assign a learner to a cluster and print the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			return ctx.withService(cmd.Context(), true, func(svc *app.Service) error {
				inf, err := svc.Infer(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if format == formatJSON {
					return writeJSON(cmd, inf)
				}
				return printInference(cmd, inf)
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Learner ObjectID (hex)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printInference(cmd *cobra.Command, inf model.Inference) error {
	a := inf.Assignment
	rows := [][]string{
		{"User", inf.UserID},
		{"Cluster", strconv.Itoa(a.Cluster)},
		{"Distance", formatFloat(a.Distance)},
		{"Learner type", a.LearnerType.LearnerType},
		{"Strengths", strings.Join(a.LearnerType.Strength, "\n")},
		{"Weaknesses", strings.Join(a.LearnerType.Weakness, "\n")},
		{"Tips", strings.Join(a.LearnerType.Tips, "\n")},
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil)); err != nil {
		return err
	}
	return printFeatures(cmd, formatTable, inf.UserID, inf.Features)
}
