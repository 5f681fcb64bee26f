package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/driftwoodweb/studio-api/internal/config"
	dbpkg "github.com/driftwoodweb/studio-api/internal/db"
	"github.com/driftwoodweb/studio-api/internal/models"
	"github.com/driftwoodweb/studio-api/internal/validators"
)

func newCreateAdminCmd() *cobra.Command {
	var name, email, password string

	c := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a dashboard admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			name = strings.TrimSpace(name)
			if len(name) < 2 || len(name) > 100 {
				return fmt.Errorf("name must have between 2 and 100 characters")
			}

			email = strings.ToLower(strings.TrimSpace(email))
			if !validators.IsEmailFormatValid(email) {
				return fmt.Errorf("%q is not a valid email address", email)
			}

			if len(password) < 8 {
				return fmt.Errorf("password must have at least 8 characters")
			}

			db, err := dbpkg.Connect(cfg.DBUrl)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			if err := dbpkg.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			var count int64
			db.Model(&models.AdminUser{}).Where("email = ?", email).Count(&count)
			if count > 0 {
				return fmt.Errorf("an admin with email %q already exists", email)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			admin := models.AdminUser{
				Name:         name,
				Email:        email,
				PasswordHash: string(hash),
			}
			if err := db.Create(&admin).Error; err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			fmt.Fprintf(os.Stdout, "created admin %q (id=%d)\n", email, admin.ID)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "display name")
	c.Flags().StringVar(&email, "email", "", "login email")
	c.Flags().StringVar(&password, "password", "", "login password")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")
	return c
}
