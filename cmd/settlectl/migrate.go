package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/skillbridge-backend/internal/db"
)

func migrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить новые миграции",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(conn)

			applied, err := db.RunMigrations(cmd.Context(), conn, migrationsDir(dir, cfg.MigrationsPath))
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "применена %s\n", name)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "новых миграций нет")
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "каталог миграций (по умолчанию MIGRATIONS_PATH)")

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Показать, какие миграции применены",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(conn)

			statuses, err := db.Status(cmd.Context(), conn, migrationsDir(dir, cfg.MigrationsPath))
			if err != nil {
				return err
			}
			for _, st := range statuses {
				mark := "pending"
				if st.Applied {
					mark = "applied"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", mark, st.Name)
			}
			return nil
		},
	})

	return cmd
}

func migrationsDir(flag, fromConfig string) string {
	if flag != "" {
		return flag
	}
	return fromConfig
}
