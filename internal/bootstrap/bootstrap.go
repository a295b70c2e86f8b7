package bootstrap

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appRoutes "github.com/yigit/collegeportal/internal/app/routes"
	"github.com/yigit/collegeportal/internal/config"
	appMiddleware "github.com/yigit/collegeportal/internal/middleware"
	"github.com/yigit/collegeportal/internal/mockapi"
	"github.com/yigit/collegeportal/internal/mockapi/store"
	pkgAuth "github.com/yigit/collegeportal/internal/pkg/auth"
	"github.com/yigit/collegeportal/internal/pkg/filestorage"
	"github.com/yigit/collegeportal/internal/pkg/logger"
	"github.com/yigit/collegeportal/internal/seed"
)

// Dependencies holds everything the development backend needs
type Dependencies struct {
	Store          *store.Store
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Handler        *mockapi.Handler
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.IsPrettyLogging(),
	})
	lgr.Debug().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// BuildDependencies creates the store, seeds it when configured, and wires the handlers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	if err := cfg.ValidateMock(); err != nil {
		return nil, err
	}

	deps := &Dependencies{Logger: lgr}
	deps.Store = store.New()
	if cfg.Mock.Seed {
		if err := seed.CreateDefaultData(deps.Store, time.Now(), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.Mock.JWTSecret,
		AccessTokenExp: cfg.Mock.TokenTTL,
		TokenIssuer:    cfg.Mock.Issuer,
	})

	files, err := filestorage.NewLocalStorage(cfg.Mock.StoragePath, "/uploads", lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to set up file storage: %w", err)
	}
	deps.FileStorage = files

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Handler = mockapi.NewHandler(deps.Store, deps.JWTService, deps.FileStorage, logger.WithComponent(lgr, "mockapi"))
	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Mock.Mode) {
	case "production", "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router, deps.Handler, deps.AuthMiddleware)

	// Uploaded submission files
	router.Static("/uploads", deps.FileStorage.BasePath())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
