package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var importFlags struct {
	file          string
	name          string
	difficulty    string
	free          bool
	caseSensitive bool
	moduleID      string
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create a module from a word list, or replace the words of an existing one",
	Example: `  octovoc import --file words.xlsx --name "Adjectives 1" --free
  octovoc import --file words.csv --module-id 6f1c...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if importFlags.file == "" {
			return fmt.Errorf("--file is required")
		}
		if importFlags.moduleID == "" && importFlags.name == "" {
			return fmt.Errorf("--name is required when creating a module")
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, closeDB, err := openDB(cfg, logger, cfg.Database.AutoMigrate)
		if err != nil {
			return err
		}
		defer closeDB()

		svc, err := buildServices(cmd.Context(), cfg, db, &service.LogMailer{})
		if err != nil {
			return err
		}

		f, err := os.Open(importFlags.file)
		if err != nil {
			return fmt.Errorf("open word list: %w", err)
		}
		defer f.Close()

		ctx := middleware.WithLogger(cmd.Context(), logger)
		filename := filepath.Base(importFlags.file)

		var summary *model.ModuleSummary
		if importFlags.moduleID != "" {
			moduleID, err := uuid.Parse(importFlags.moduleID)
			if err != nil {
				return fmt.Errorf("invalid --module-id: %w", err)
			}
			summary, err = svc.Catalog.ReimportModule(ctx, moduleID, filename, f)
			if err != nil {
				return err
			}
		} else {
			req := &model.CreateModuleRequest{
				Name:          importFlags.name,
				Difficulty:    importFlags.difficulty,
				IsFree:        importFlags.free,
				CaseSensitive: importFlags.caseSensitive,
			}
			summary, err = svc.Catalog.ImportModule(ctx, req, filename, f)
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "module %s %q version %d: %d words in %d batteries\n",
			summary.ModuleID, summary.Name, summary.Version, summary.WordCount, summary.BatteryCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFlags.file, "file", "", "word list (.xlsx or .csv)")
	importCmd.Flags().StringVar(&importFlags.name, "name", "", "module name")
	importCmd.Flags().StringVar(&importFlags.difficulty, "difficulty", "", "difficulty label")
	importCmd.Flags().BoolVar(&importFlags.free, "free", false, "open the module without a class code")
	importCmd.Flags().BoolVar(&importFlags.caseSensitive, "case-sensitive", false, "compare answers case-sensitively")
	importCmd.Flags().StringVar(&importFlags.moduleID, "module-id", "", "replace the content of this module instead of creating one")
}
