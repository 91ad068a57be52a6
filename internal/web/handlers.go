package web

import (
	"html/template"
	"log/slog"

	"github.com/FACorreiaa/ledger/internal/domain/analytics"
	"github.com/FACorreiaa/ledger/internal/domain/auth"
	"github.com/FACorreiaa/ledger/internal/domain/ingest"
	"github.com/FACorreiaa/ledger/internal/domain/ledger"
	"github.com/FACorreiaa/ledger/internal/domain/tagging"
	"github.com/FACorreiaa/ledger/pkg/config"
)

// Handlers bundles every domain service behind a single receiver so each
// endpoint's handler method can reach the collaborator it needs, the way
// the teacher's own handler structs hold their service dependencies.
type Handlers struct {
	cfg       *config.Config
	logger    *slog.Logger
	tmpl      *template.Template
	codec     *auth.Codec
	authSvc   *auth.Service
	ledgerSvc *ledger.Service
	ingestSvc *ingest.Service
	tagger    *tagging.Engine
	analytics *analytics.Repository
}

func NewHandlers(
	cfg *config.Config,
	logger *slog.Logger,
	codec *auth.Codec,
	authSvc *auth.Service,
	ledgerSvc *ledger.Service,
	ingestSvc *ingest.Service,
	tagger *tagging.Engine,
	analyticsRepo *analytics.Repository,
) *Handlers {
	return &Handlers{
		cfg:       cfg,
		logger:    logger,
		tmpl:      newTemplates(),
		codec:     codec,
		authSvc:   authSvc,
		ledgerSvc: ledgerSvc,
		ingestSvc: ingestSvc,
		tagger:    tagger,
		analytics: analyticsRepo,
	}
}
