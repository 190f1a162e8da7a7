package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/user-management/internal/auth"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			if _, err := db.Exec("DELETE FROM blacklisted_tokens"); err != nil {
				log.Fatalf("failed to clear blacklisted tokens: %v", err)
			}
			if _, err := db.Exec("DELETE FROM users"); err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		seedUsers := []struct {
			Email    string
			Name     string
			LastName string
			UserType string
		}{
			{"root@mail.com", "Root", "Admin", auth.UserTypeSuperAdmin},
			{"ops@mail.com", "Ops", "Manager", auth.UserTypeAdmin},
			{"dina@mail.com", "Dina", "Common", auth.UserTypeCommon},
		}

		for _, u := range seedUsers {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM users WHERE email = $1", u.Email).Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}

			if _, err := db.Exec(
				"INSERT INTO users (email, name, last_name, user_type, password_hash, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, true, now(), now())",
				u.Email, u.Name, u.LastName, u.UserType, string(hash),
			); err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.UserType, u.Email)
		}

		fmt.Println("Seeding completed")
	},
}
