// Package app wires configuration, storage, clients and services into
// the shared application core.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ecoprohq/ecopro/internal/clients/yahoo"
	"github.com/ecoprohq/ecopro/internal/common"
	"github.com/ecoprohq/ecopro/internal/interfaces"
	"github.com/ecoprohq/ecopro/internal/services/ai"
	"github.com/ecoprohq/ecopro/internal/services/marketdata"
	"github.com/ecoprohq/ecopro/internal/storage/surrealdb"
)

// App holds all initialized services, clients, and storage. It is the
// shared core used by cmd/ecopro-server.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Storage       interfaces.StorageManager
	YahooClient   interfaces.QuoteClient
	AIService     interfaces.AIService
	MarketService interfaces.MarketService
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Config resolution: explicit path, ECOPRO_CONFIG, binary dir, then dev fallback
	if configPath == "" {
		configPath = os.Getenv("ECOPRO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "ecopro.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/ecopro.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	marketService := marketdata.NewService(yahooClient, config, logger)
	aiService := ai.NewService(storageManager, marketService, config, logger)

	a := &App{
		Config:        config,
		Logger:        logger,
		Storage:       storageManager,
		YahooClient:   yahooClient,
		AIService:     aiService,
		MarketService: marketService,
		StartupTime:   startupStart,
	}

	logger.Info().
		Str("environment", config.Environment).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return a, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
