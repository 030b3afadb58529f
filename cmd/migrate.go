package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		_, closeDB, err := openDB(cfg, logger, true)
		if err != nil {
			return err
		}
		closeDB()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
