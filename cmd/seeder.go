package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
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
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"attendance_records", "users", "departments"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		departments := []struct {
			Name string
			Desc string
		}{
			{"engineering", "Product development and infrastructure"},
			{"sales", "Sales and account management"},
			{"operations", "Office and people operations"},
			{"finance", "Accounting and payroll"},
		}

		for _, d := range departments {
			var exists int
			row := db.QueryRow("SELECT 1 FROM departments WHERE name = $1", d.Name)
			if err := row.Scan(&exists); err != nil {
				if _, err := db.Exec(
					"INSERT INTO departments (name, description, is_active, created_at, updated_at) VALUES ($1, $2, true, now(), now())",
					d.Name, d.Desc); err != nil {
					log.Fatalf("failed to insert department %s: %v", d.Name, err)
				}
				fmt.Printf("Seeded department: %s\n", d.Name)
			}
		}

		users := []struct {
			Name       string
			Email      string
			Role       string
			EmployeeID string
			Department string
		}{
			{"Maya Manager", "maya@mail.com", "manager", "MGR-001", "operations"},
			{"Andi Pratama", "andi@mail.com", "employee", "EMP-001", "engineering"},
			{"Budi Santoso", "budi@mail.com", "employee", "EMP-002", "engineering"},
			{"Citra Dewi", "citra@mail.com", "employee", "EMP-003", "sales"},
			{"Dian Lestari", "dian@mail.com", "employee", "EMP-004", "finance"},
		}

		for _, u := range users {
			var exists int
			row := db.QueryRow("SELECT 1 FROM users WHERE email = $1", u.Email)
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("User already exists: %s\n", u.Email)
				continue
			}

			if _, err := db.Exec(
				"INSERT INTO users (name, email, password_hash, role, employee_id, department, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())",
				u.Name, u.Email, string(hash), u.Role, u.EmployeeID, u.Department); err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded user: %s (%s)\n", u.Email, u.Role)
		}

		fmt.Println("Seeding complete. All seeded accounts use password:", password)
	},
}
