package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/franciscosanchezn/pizza-admin/docs" // Import generated docs
	"github.com/franciscosanchezn/pizza-admin/internal/auth"
	"github.com/franciscosanchezn/pizza-admin/internal/client"
	"github.com/franciscosanchezn/pizza-admin/internal/config"
	"github.com/franciscosanchezn/pizza-admin/internal/controllers"
	"github.com/franciscosanchezn/pizza-admin/internal/database"
	"github.com/franciscosanchezn/pizza-admin/internal/middleware"
	"github.com/franciscosanchezn/pizza-admin/internal/models"
	"github.com/franciscosanchezn/pizza-admin/internal/notify"
	"github.com/franciscosanchezn/pizza-admin/internal/services"
	"github.com/franciscosanchezn/pizza-admin/internal/session"
	"github.com/franciscosanchezn/pizza-admin/internal/storage"
	"github.com/franciscosanchezn/pizza-admin/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// console holds the wired components of a running admin console
type console struct {
	conf     *config.Config
	tokens   *auth.TokenManager
	session  *session.Manager
	store    store.Store
	feed     *notify.Feed
	catalog  *services.Catalog
	registry *prometheus.Registry
}

// @title Pizza Admin Console
// @version 1.0
// @description Operator console for the pizza catalog backend
// @host localhost:8090
// @BasePath /
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()

	app, err := newConsole(configuration)
	checkPanicErr(err)
	defer app.session.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	app.session.Start(ctx)

	// Initialize Gin router
	router := setupRouter(app)

	server := &http.Server{
		Addr:    fmt.Sprintf("%v:%d", configuration.Host, configuration.Port),
		Handler: router,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start the server
	log.Infof("Starting console on %s (backend %s)", server.Addr, configuration.APIURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("Server stopped")
	}
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment.
// LOG_LEVEL overrides the environment default.
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
	if raw := config.GetEnvWithDefault("LOG_LEVEL", ""); raw != "" {
		if level, err := log.ParseLevel(raw); err == nil {
			log.SetLevel(level)
		} else {
			log.WithError(err).Warn("Ignoring invalid LOG_LEVEL")
		}
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupStorage opens the database holding the persisted session
func setupStorage(conf *config.Config) (storage.Storage, error) {
	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.StorageDriver,
		Path:     conf.StoragePath,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		Name:     conf.DBName,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		SSLMode:  conf.DBSSLMode,
	})
	if err != nil {
		return nil, err
	}
	return storage.NewGormStorage(db)
}

// newConsole wires storage, the backend clients, the session and the catalog
func newConsole(conf *config.Config) (*console, error) {
	kv, err := setupStorage(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	navigator := auth.NavigatorFunc(func(route string) {
		log.WithField("route", route).Info("Operator redirected")
	})
	tokens := auth.NewTokenManager(kv, navigator)

	// Login and profile calls must never trigger the logout flow themselves
	authClient := client.New(conf.APIURL,
		client.WithTokenSource(tokens),
		client.WithTimeout(conf.RequestTimeout),
		client.WithUnauthorizedHandler(tokens.ClearCredentials),
	)
	resourceClient := client.New(conf.APIURL,
		client.WithTokenSource(tokens),
		client.WithTimeout(conf.RequestTimeout),
		client.WithUnauthorizedHandler(tokens.HandleExpiration),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := client.RegisterMetrics(registry); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	st := store.New()
	feed := notify.NewFeed(50)

	return &console{
		conf:     conf,
		tokens:   tokens,
		session:  session.NewManager(tokens, kv, authClient, navigator, session.WithCheckInterval(conf.TokenCheckInterval)),
		store:    st,
		feed:     feed,
		catalog:  services.NewCatalog(st, resourceClient, feed),
		registry: registry,
	}, nil
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter(app *console) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	setupRoutes(router, app)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine, app *console) {
	authController := controllers.NewAuthController(app.session, app.tokens)
	dashboardController := controllers.NewDashboardController(app.catalog.Dashboard, app.feed)
	toppingController := controllers.NewToppingController(app.catalog.Toppings, app.store)
	pizzaController := controllers.NewPizzaController(app.catalog.Pizzas, app.store)

	// Health check and metrics endpoints
	router.GET("/health", healthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{})))

	// Session routes
	router.POST("/login", authController.Login)
	router.POST("/logout", authController.Logout)
	router.GET("/session", authController.Session)
	router.GET(middleware.UnauthorizedRoute, controllers.Unauthorized)

	// Routes requiring an operator session
	protected := router.Group("/")
	protected.Use(middleware.RequireAuthenticated(app.session))
	{
		protected.GET("/", middleware.RequirePermission("view the dashboard", canViewDashboard), dashboardController.Dashboard)
		protected.GET("/notifications", dashboardController.Notifications)

		catalog := protected.Group("/")
		catalog.Use(middleware.RequireRole(models.RoleSuperAdmin, models.RolePizzaStoreOwner, models.RolePizzaChef))
		{
			catalog.GET("/toppings", toppingController.ListToppings)
			catalog.POST("/toppings", middleware.RequirePermission("create toppings", canCreateToppings), toppingController.CreateTopping)
			catalog.PUT("/toppings/:id", middleware.RequirePermission("update toppings", canUpdateToppings), toppingController.UpdateTopping)
			catalog.DELETE("/toppings/:id", middleware.RequirePermission("delete toppings", canDeleteToppings), toppingController.DeleteTopping)

			catalog.GET("/pizzas", pizzaController.ListPizzas)
			catalog.POST("/pizzas", middleware.RequirePermission("create pizzas", canCreatePizzas), pizzaController.CreatePizza)
			catalog.PUT("/pizzas/:id", middleware.RequirePermission("update pizzas", canUpdatePizzas), pizzaController.UpdatePizza)
			catalog.DELETE("/pizzas/:id", middleware.RequirePermission("delete pizzas", canDeletePizzas), pizzaController.DeletePizza)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func canViewDashboard(p models.Permissions) bool  { return p.CanViewDashboard }
func canCreateToppings(p models.Permissions) bool { return p.CanCreateToppings }
func canUpdateToppings(p models.Permissions) bool { return p.CanUpdateToppings }
func canDeleteToppings(p models.Permissions) bool { return p.CanDeleteToppings }
func canCreatePizzas(p models.Permissions) bool   { return p.CanCreatePizzas }
func canUpdatePizzas(p models.Permissions) bool   { return p.CanUpdatePizzas }
func canDeletePizzas(p models.Permissions) bool   { return p.CanDeletePizzas }

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the console is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pizza-admin",
	})
}
