// Package app wires configuration into the services shared by the server and CLI.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"coursepilot/internal/auth"
	"coursepilot/internal/config"
	"coursepilot/internal/extract"
	"coursepilot/internal/handler"
	"coursepilot/internal/metrics"
	"coursepilot/internal/parser"
	"coursepilot/internal/parser/claude"
	"coursepilot/internal/parser/gemini"
	"coursepilot/internal/parser/openai"
	"coursepilot/internal/port"
	"coursepilot/internal/repository/memory"
	"coursepilot/internal/repository/postgres"
	"coursepilot/internal/router"
	"coursepilot/internal/service"
)

var registerOnce sync.Once

// RegisterProviders registers the built-in language model providers.
func RegisterProviders() {
	registerOnce.Do(func() {
		parser.RegisterProvider("claude", func(cfg *config.ParserProviderConfig) (port.LanguageModel, error) {
			return claude.NewClient(cfg), nil
		})
		parser.RegisterProvider("openai", func(cfg *config.ParserProviderConfig) (port.LanguageModel, error) {
			return openai.NewClient(cfg), nil
		})
		parser.RegisterProvider("gemini", func(cfg *config.ParserProviderConfig) (port.LanguageModel, error) {
			return gemini.NewClient(cfg), nil
		})
	})
}

// App holds the wired components.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Extractor *extract.Registry
	Heuristic *parser.Heuristic
	// Model is nil when no provider has a usable credential.
	Model    *parser.ModelParser
	Syllabus service.SyllabusService
	Sync     service.SyncService
	Tasks    port.TaskStore
	Events   port.EventStore

	db *sqlx.DB
}

// New builds every component from cfg. Close releases the database pool.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	RegisterProviders()

	a := &App{Config: cfg, Logger: logger, Metrics: metrics.New()}

	dedup, err := parser.ParseDedupPolicy(cfg.Parser.Dedup)
	if err != nil {
		return nil, err
	}
	a.Heuristic = parser.NewHeuristic(parser.HeuristicOptions{Dedup: dedup})

	a.Extractor = extract.New(extract.Options{
		Pdftotext:     cfg.Extract.Pdftotext,
		Tesseract:     cfg.Extract.Tesseract,
		TesseractLang: cfg.Extract.TesseractLang,
		Timeout:       time.Duration(cfg.Extract.TimeoutSecs) * time.Second,
		Logger:        logger.Named("extract"),
	})

	credential, err := a.buildModel()
	if err != nil {
		return nil, err
	}

	if err := a.buildStores(); err != nil {
		return nil, err
	}

	// A nil *ModelParser must stay a nil interface.
	var modelPath service.ModelPath
	if a.Model != nil {
		modelPath = a.Model
	}
	a.Syllabus = service.NewSyllabusService(
		a.Extractor,
		a.Heuristic,
		modelPath,
		service.SyllabusServiceConfig{ModelCredential: credential},
		a.Metrics,
		logger.Named("syllabus"),
	)
	a.Sync = service.NewSyncService(a.Tasks, a.Events, a.Metrics, logger.Named("sync"))
	return a, nil
}

// buildModel sets up the provider chain and returns the credential of the
// first usable provider, or "" when none is configured.
func (a *App) buildModel() (string, error) {
	providers := a.Config.Parser.Providers()
	if len(providers) == 0 {
		a.Logger.Info("no language model credential configured, using heuristic parser only")
		return "", nil
	}

	models := make([]port.LanguageModel, 0, len(providers))
	names := make([]string, 0, len(providers))
	for _, pc := range providers {
		m, err := parser.NewLanguageModel(pc)
		if err != nil {
			return "", fmt.Errorf("parser provider %q: %w", pc.Provider, err)
		}
		models = append(models, m)
		names = append(names, pc.Provider)
	}

	a.Model = parser.NewModelParser(
		parser.NewFallbackModel(models, names, a.Logger.Named("llm")),
		a.Heuristic,
		parser.ModelOptions{
			Temperature:   a.Config.Parser.Temperature,
			MaxTokens:     a.Config.Parser.MaxTokens,
			MaxInputChars: a.Config.Parser.MaxInputChars,
		},
		a.Logger.Named("model"),
	)
	a.Logger.Info("language model parser enabled", zap.Strings("providers", names))
	return providers[0].APIKey, nil
}

func (a *App) buildStores() error {
	switch a.Config.Store.Driver {
	case "postgres":
		db, err := postgres.NewDB(&a.Config.DB)
		if err != nil {
			return err
		}
		a.db = db
		a.Tasks = postgres.NewTaskStore(db)
		a.Events = postgres.NewEventStore(db)
	default:
		a.Tasks = memory.NewTaskStore()
		a.Events = memory.NewEventStore()
	}
	return nil
}

// Router builds the HTTP engine.
func (a *App) Router() *gin.Engine {
	var pinger handler.Pinger
	if a.db != nil {
		pinger = postgres.Pinger{DB: a.db}
	}

	opts := router.Options{
		CORSOrigins: a.Config.CORS.AllowedOrigins,
		Logger:      a.Logger.Named("http"),
	}
	if a.Config.Metrics.Enabled {
		opts.Metrics = a.Metrics
	}
	if a.Config.Auth.Enabled {
		opts.Verifier = auth.NewVerifier(a.Config.Auth)
	}

	maxUpload := a.Config.Server.MaxUploadMB << 20
	return router.Setup(
		handler.NewSyllabusHandler(a.Syllabus, a.Sync, maxUpload, a.Logger.Named("handler")),
		handler.NewHealthHandler(pinger),
		opts,
	)
}

// Close releases resources held by the App.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
