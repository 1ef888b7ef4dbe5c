package main

import (
	"errors"
	"fmt"

	"contractors/db/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations to postgres.conn",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Postgres.Conn == "" {
			return errors.New("postgres.conn (POSTGRES_CONN) is not set")
		}
		dbConn, err := connectPostgres(cmd.Context(), cfg.Postgres)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := migrations.Run(dbConn.DB); err != nil {
			return err
		}
		version, err := migrations.Version(dbConn.DB)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
		return nil
	},
}
