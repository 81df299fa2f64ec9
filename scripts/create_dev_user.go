package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/pizza-admin/internal/database"
	"github.com/franciscosanchezn/pizza-admin/internal/devapi"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
)

func main() {
	// Parse command line flags
	dbPath := flag.String("db", "devapi.sqlite", "Development backend SQLite database")
	email := flag.String("email", "", "Account email")
	password := flag.String("password", "", "Account password")
	role := flag.String("role", string(models.RolePizzaChef), "Account role (super_admin, pizza_store_owner or pizza_chef)")
	firstName := flag.String("first-name", "Dev", "First name")
	lastName := flag.String("last-name", "User", "Last name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}

	server, err := devapi.New(devapi.Config{
		Database: database.DatabaseConfig{Driver: "sqlite", Path: *dbPath},
	})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer server.Close()

	user, err := server.SeedUser(*email, *password, models.Role(*role), *firstName, *lastName)
	if err != nil {
		log.Fatal("Failed to create user:", err)
	}

	fmt.Printf("✓ Development account ready for role '%s'!\n", *role)
	fmt.Printf("User ID: %d\n", user.ID)
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Println("\nLog in to the console with these credentials:")
	fmt.Printf("curl -X POST http://localhost:8090/login \\\n")
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", user.Email, *password)
}
