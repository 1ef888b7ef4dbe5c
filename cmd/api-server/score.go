package main

import (
	"encoding/json"
	"io"
	"os"

	"contractors/internal/engine"
	"contractors/internal/intake"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score <application.json|->",
	Short: "Print the approval score for an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if args[0] == "-" {
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		app, err := intake.ParseApplication(raw)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(engine.ComputeApprovalScore(app))
	},
}
