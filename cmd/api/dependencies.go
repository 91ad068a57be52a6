package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/ledger/internal/domain/analytics"
	"github.com/FACorreiaa/ledger/internal/domain/auth"
	"github.com/FACorreiaa/ledger/internal/domain/ingest"
	"github.com/FACorreiaa/ledger/internal/domain/ledger"
	"github.com/FACorreiaa/ledger/internal/domain/tagging"
	"github.com/FACorreiaa/ledger/internal/web"
	"github.com/FACorreiaa/ledger/pkg/config"
	"github.com/FACorreiaa/ledger/pkg/db"
)

// Dependencies holds every application dependency, wired in the
// initDatabase -> initRepositories -> initServices -> initHandlers
// sequence the teacher's cmd/api/dependencies.go follows.
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	AnalyticsRepo *analytics.Repository
	AuthRepo      *auth.Repository
	IngestRepo    *ingest.Repository
	LedgerRepo    *ledger.Repository

	// Services
	AuthService   *auth.Service
	AuthCodec     *auth.Codec
	TaggingEngine *tagging.Engine
	IngestService *ingest.Service
	LedgerService *ledger.Service

	// Handlers / router
	Handlers *web.Handlers
	Router   http.Handler
}

// InitDependencies initializes every application dependency.
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations.
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{Path: d.Config.Database.Path}, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database
	return nil
}

// initRepositories initializes all repository-layer dependencies.
func (d *Dependencies) initRepositories() error {
	d.AnalyticsRepo = analytics.NewRepository(d.DB.Conn())
	d.AuthRepo = auth.NewRepository(d.DB.Conn())
	d.IngestRepo = ingest.NewRepository(d.DB.Conn())
	d.LedgerRepo = ledger.NewRepository(d.DB)

	d.Logger.Info("repositories initialized")
	return nil
}

// initServices initializes all service-layer dependencies.
func (d *Dependencies) initServices() error {
	d.AuthCodec = auth.NewCodec(d.Config.Auth.CookieSecret)
	d.AuthService = auth.NewService(d.AuthRepo, auth.NewHasher(), d.Logger)
	d.TaggingEngine = tagging.NewEngine(d.DB, d.Logger)
	d.IngestService = ingest.NewService(d.IngestRepo, d.DB, d.TaggingEngine, d.Logger)
	d.LedgerService = ledger.NewService(d.LedgerRepo, d.Config.Location(), d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes the web handlers and the chi router.
func (d *Dependencies) initHandlers() error {
	d.Handlers = web.NewHandlers(
		d.Config,
		d.Logger,
		d.AuthCodec,
		d.AuthService,
		d.LedgerService,
		d.IngestService,
		d.TaggingEngine,
		d.AnalyticsRepo,
	)
	d.Router = web.NewRouter(d.Handlers, d.DB)

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources.
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
