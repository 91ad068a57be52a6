package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/FACorreiaa/ledger/internal/model"
)

// Service validates input at the model boundary before delegating to the
// repository, the same division ingest.Service and auth.Service use:
// model constructors own the invariants, Service owns orchestration and
// logging, Repository owns SQL.
type Service struct {
	repo   *Repository
	logger *slog.Logger
	loc    *time.Location
}

func NewService(repo *Repository, loc *time.Location, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, loc: loc}
}

// CreateTransaction checks that the date is not in the future before
// inserting. The amount range is checked by the form decoder, and an
// unknown tag is reported by the store's foreign key.
// Amount is expected pre-signed by the caller (the handler applies the
// sign from the form's type field before calling in).
func (s *Service) CreateTransaction(ctx context.Context, amount float64, date time.Time, description string, tagID *model.DatabaseID) (model.Transaction, error) {
	tx, err := model.NewTransactionBuilder(amount).
		Date(date).
		Description(description).
		Tag(tagID).
		Build(time.Now(), s.loc)
	if err != nil {
		return model.Transaction{}, err
	}
	created, err := s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		s.logger.ErrorContext(ctx, "create transaction failed", slog.Any("error", err))
		return model.Transaction{}, err
	}
	return created, nil
}

func (s *Service) UpdateTransaction(ctx context.Context, id model.DatabaseID, amount float64, date time.Time, description string, tagID *model.DatabaseID) error {
	tx, err := model.NewTransactionBuilder(amount).
		Date(date).
		Description(description).
		Tag(tagID).
		Build(time.Now(), s.loc)
	if err != nil {
		return err
	}
	tx.ID = id
	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) DeleteTransaction(ctx context.Context, id model.DatabaseID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) GetTransaction(ctx context.Context, id model.DatabaseID) (model.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *Service) CreateTag(ctx context.Context, name string) (model.Tag, error) {
	tag, err := model.NewTag(name)
	if err != nil {
		return model.Tag{}, err
	}
	return s.repo.CreateTag(ctx, tag.Name)
}

func (s *Service) UpdateTag(ctx context.Context, id model.DatabaseID, name string) error {
	tag, err := model.NewTag(name)
	if err != nil {
		return err
	}
	return s.repo.UpdateTag(ctx, id, tag.Name)
}

func (s *Service) DeleteTag(ctx context.Context, id model.DatabaseID) error {
	return s.repo.DeleteTag(ctx, id)
}

func (s *Service) ListRules(ctx context.Context) ([]RuleView, error) {
	return s.repo.ListRules(ctx)
}

func (s *Service) CreateRule(ctx context.Context, pattern string, tagID model.DatabaseID) (model.Rule, error) {
	rule, err := model.NewRule(pattern, tagID)
	if err != nil {
		return model.Rule{}, err
	}
	return s.repo.CreateRule(ctx, rule.Pattern, rule.TagID)
}

func (s *Service) UpdateRule(ctx context.Context, id model.DatabaseID, pattern string, tagID model.DatabaseID) error {
	rule, err := model.NewRule(pattern, tagID)
	if err != nil {
		return err
	}
	return s.repo.UpdateRule(ctx, id, rule.Pattern, rule.TagID)
}

func (s *Service) DeleteRule(ctx context.Context, id model.DatabaseID) error {
	return s.repo.DeleteRule(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) ListUntagged(ctx context.Context) ([]model.Transaction, error) {
	return s.repo.ListUntagged(ctx)
}

func (s *Service) ApplyQuickTagging(ctx context.Context, assignments map[model.DatabaseID]model.DatabaseID, dismissals []model.DatabaseID) error {
	return s.repo.ApplyQuickTagging(ctx, assignments, dismissals)
}
