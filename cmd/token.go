package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tokenFlags struct {
	student   string
	classCode string
	ttl       time.Duration
}

// tokenCmd issues a student token, mostly for manual API testing.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a student access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, closeDB, err := openDB(cfg, logger, false)
		if err != nil {
			return err
		}
		defer closeDB()

		if tokenFlags.ttl > 0 {
			cfg.Auth.TokenTTL = tokenFlags.ttl
		}
		svc, err := buildServices(cmd.Context(), cfg, db, &service.LogMailer{})
		if err != nil {
			return err
		}

		req := &model.TokenRequest{ClassCode: tokenFlags.classCode}
		if tokenFlags.student != "" {
			id, err := uuid.Parse(tokenFlags.student)
			if err != nil {
				return fmt.Errorf("invalid --student: %w", err)
			}
			req.StudentID = &id
		}

		resp, err := svc.Auth.IssueStudentToken(middleware.WithLogger(cmd.Context(), logger), req)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenFlags.student, "student", "", "student id (a new one is generated when empty)")
	tokenCmd.Flags().StringVar(&tokenFlags.classCode, "class-code", "", "class code to embed in the token")
	tokenCmd.Flags().DurationVar(&tokenFlags.ttl, "ttl", 0, "token lifetime (defaults to auth.token_ttl)")
}
