package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/franciscosanchezn/pizza-admin/internal/config"
	"github.com/franciscosanchezn/pizza-admin/internal/database"
	"github.com/franciscosanchezn/pizza-admin/internal/devapi"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// demoPassword is shared by every seeded account
const demoPassword = "password123"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
	log.SetFormatter(&log.JSONFormatter{})

	cfg := devapi.Config{
		Database: database.DatabaseConfig{
			Driver: config.GetEnvWithDefault("DEVAPI_DB_DRIVER", "sqlite"),
			Path:   config.GetEnvWithDefault("DEVAPI_DB_PATH", "devapi.sqlite"),
		},
		JWTSecret:                 config.GetEnvWithDefault("JWT_SECRET", ""),
		TokenTTL:                  config.GetEnvAsType("TOKEN_TTL", time.Duration(0)),
		PartialWriteRelationships: config.GetEnvAsType("DEVAPI_PARTIAL_WRITES", false),
	}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, tokens will not survive a restart")
	}

	server, err := devapi.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to start development backend")
	}
	defer server.Close()

	if err := seed(server); err != nil {
		log.WithError(err).Fatal("Failed to seed development backend")
	}

	port := config.GetEnvAsType("DEVAPI_PORT", 3001)
	log.Infof("Development backend listening on :%d%s", port, devapi.BasePath)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), server.Handler()); err != nil {
		log.WithError(err).Fatal("Development backend stopped")
	}
}

// seed creates one account per role and, on an empty catalog, a few toppings and pizzas
func seed(server *devapi.Server) error {
	accounts := []struct {
		email, first, last string
		role               models.Role
	}{
		{"admin@pizza.dev", "Ada", "Admin", models.RoleSuperAdmin},
		{"owner@pizza.dev", "Olivia", "Owner", models.RolePizzaStoreOwner},
		{"chef@pizza.dev", "Carlo", "Chef", models.RolePizzaChef},
	}
	for _, a := range accounts {
		if _, err := server.SeedUser(a.email, demoPassword, a.role, a.first, a.last); err != nil {
			return fmt.Errorf("seed user %s: %w", a.email, err)
		}
		log.WithFields(log.Fields{"email": a.email, "role": a.role}).Info("Seeded account")
	}

	empty, err := server.CatalogEmpty()
	if err != nil || !empty {
		return err
	}

	toppings := map[string]*devapi.Topping{}
	for _, t := range []struct{ name, price string }{
		{"Tomato Sauce", "0.50"}, {"Mozzarella", "1.50"}, {"Basil", "0.75"}, {"Pepperoni", "2.00"},
	} {
		topping, err := server.SeedTopping(t.name, t.price)
		if err != nil {
			return fmt.Errorf("seed topping %s: %w", t.name, err)
		}
		toppings[t.name] = topping
	}

	if _, err := server.SeedPizza("Margherita", "Tomato, mozzarella and basil",
		toppings["Tomato Sauce"], toppings["Mozzarella"], toppings["Basil"]); err != nil {
		return err
	}
	if _, err := server.SeedPizza("Pepperoni", "Tomato, mozzarella and pepperoni",
		toppings["Tomato Sauce"], toppings["Mozzarella"], toppings["Pepperoni"]); err != nil {
		return err
	}
	log.Info("Seeded demo catalog")
	return nil
}
