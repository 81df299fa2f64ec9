// Package devapi is a development stand-in for the pizza catalog backend. It speaks
// the same JSON:API dialect as the production service and is used by end-to-end
// tests and local development of the console.
package devapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/franciscosanchezn/pizza-admin/internal/database"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var log = logrus.WithField("component", "devapi")

// BasePath is where the API is mounted
const BasePath = "/api/v1"

// Config controls a development backend
type Config struct {
	// Database is the catalog store. An empty config uses a private in-memory SQLite database.
	Database database.DatabaseConfig
	// JWTSecret signs access tokens. A random secret is generated when empty.
	JWTSecret string
	// TokenTTL is the lifetime of issued access tokens. Defaults to 24 hours.
	TokenTTL time.Duration
	// PartialWriteRelationships makes pizza write responses omit the included
	// toppings, leaving only their identifiers.
	PartialWriteRelationships bool
}

// Server is a running development backend
type Server struct {
	cfg    Config
	db     *gorm.DB
	tokens *manage.Manager
	secret []byte
	router *gin.Engine
}

// New opens the database, migrates the schema and builds the routes
func New(cfg Config) (*Server, error) {
	if cfg.Database.Driver == "" && cfg.Database.Path == "" {
		cfg.Database = database.DatabaseConfig{
			Driver: "sqlite",
			Path:   fmt.Sprintf("file:devapi-%s?mode=memory&cache=shared", uuid.New().String()),
		}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = uuid.New().String()
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&User{}, &Topping{}, &Pizza{}, &AccessToken{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	secret := []byte(cfg.JWTSecret)
	tokens, err := newTokenManager(db, secret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, db: db, tokens: tokens, secret: secret}
	s.router = s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler of the backend
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group(BasePath)
	api.POST("/login", s.login)

	protected := api.Group("")
	protected.Use(s.bearerAuth())
	{
		protected.POST("/logout", s.logout)
		protected.GET("/profile", s.profile)
		protected.GET("/dashboard", s.dashboard)

		protected.GET("/toppings", s.listToppings)
		protected.GET("/toppings/:id", s.getTopping)
		protected.GET("/pizzas", s.listPizzas)
		protected.GET("/pizzas/:id", s.getPizza)

		manageToppings := requireCapability("manage toppings", func(u User) bool {
			return capabilities(models.Role(u.Role)).CanManageToppings
		})
		protected.POST("/toppings", manageToppings, s.createTopping)
		protected.PUT("/toppings/:id", manageToppings, s.updateTopping)
		protected.DELETE("/toppings/:id", manageToppings, s.deleteTopping)

		managePizzas := requireCapability("manage pizzas", func(u User) bool {
			return capabilities(models.Role(u.Role)).CanManagePizzas
		})
		protected.POST("/pizzas", managePizzas, s.createPizza)
		protected.PUT("/pizzas/:id", managePizzas, s.updatePizza)
		protected.DELETE("/pizzas/:id", managePizzas, s.deletePizza)
	}

	return router
}

// SeedUser creates or replaces the account with the given email
func (s *Server) SeedUser(email, password string, role models.Role, firstName, lastName string) (*User, error) {
	if role.DisplayName() == "Unknown" {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	var user User
	err = s.db.Where("email = ?", email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user.Email = email
	user.FirstName = firstName
	user.LastName = lastName
	user.Role = string(role)
	user.PasswordHash = string(hash)
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SeedTopping stores a topping directly, bypassing the API
func (s *Server) SeedTopping(name, price string) (*Topping, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", price, err)
	}
	topping := &Topping{Name: name, Price: p}
	if err := s.db.Create(topping).Error; err != nil {
		return nil, err
	}
	return topping, nil
}

// SeedPizza stores a pizza with existing toppings, bypassing the API
func (s *Server) SeedPizza(name, description string, toppings ...*Topping) (*Pizza, error) {
	pizza := &Pizza{Name: name, Description: description}
	for _, t := range toppings {
		pizza.Toppings = append(pizza.Toppings, *t)
	}
	if err := s.db.Omit("Toppings.*").Create(pizza).Error; err != nil {
		return nil, err
	}
	return pizza, nil
}

// RevokeTokens deletes every issued access token
func (s *Server) RevokeTokens(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&AccessToken{}).Error
}

// Close releases the database
func (s *Server) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CatalogEmpty reports whether no topping has been stored yet
func (s *Server) CatalogEmpty() (bool, error) {
	var count int64
	if err := s.db.Model(&Topping{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
