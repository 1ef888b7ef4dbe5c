package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep-offers",
	Short: "Mark expired offers as No Response once",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cl, err := newService(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer cl.Close()

		expired, err := svc.ExpireOffers(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "expired %d offers\n", len(expired))
		for _, id := range expired {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}
