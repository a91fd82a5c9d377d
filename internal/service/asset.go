package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"fixed-assets-registry/internal/export"
	"fixed-assets-registry/internal/model"
	"fixed-assets-registry/internal/query"
	"fixed-assets-registry/internal/report"
	"fixed-assets-registry/internal/repository"
	apperrors "fixed-assets-registry/pkg/errors"
	"fixed-assets-registry/pkg/validation"
)

// DepreciationResult is a depreciation report together with its evaluation date.
type DepreciationResult struct {
	AsOf time.Time
	Rows []report.DepreciationRow
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// AssetService handles business logic for asset operations. Calls are
// serialized: only one operation reaches the store at a time.
type AssetService struct {
	assets    repository.AssetRepository
	refs      repository.ReferenceRepository
	store     Pinger
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time

	mu sync.Mutex
}

// NewAssetService creates a new asset service. Vocabulary membership is
// checked through refs before any write.
func NewAssetService(assets repository.AssetRepository, refs repository.ReferenceRepository, logger *slog.Logger) *AssetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetService{
		assets:    assets,
		refs:      refs,
		validator: validation.NewValidator(refs.VocabularyContains),
		logger:    logger,
		now:       time.Now,
	}
}

// WithStore sets the handle checked by Ping.
func (s *AssetService) WithStore(store Pinger) *AssetService {
	s.store = store
	return s
}

// Ping checks the store is reachable. It reports false without error when no store handle
// was configured.
func (s *AssetService) Ping(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return false, nil
	}
	if err := s.store.PingContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return true, apperrors.CancelledError(err)
		}
		return true, apperrors.StoreUnavailableError("database unreachable", err)
	}
	return true, nil
}

// WithClock replaces the clock used for "today".
func (s *AssetService) WithClock(now func() time.Time) *AssetService {
	s.now = now
	return s
}

// Today returns the current calendar date.
func (s *AssetService) Today() time.Time {
	return model.Date(s.now())
}

// ListAssets returns the assets matching filter with their count and total cost.
func (s *AssetService) ListAssets(ctx context.Context, filter query.Filter) (*repository.ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.assets.ListAssets(ctx, filter)
	if err != nil {
		return nil, storeError("failed to retrieve assets", err)
	}

	s.logger.Debug("listed assets",
		"count", result.Count,
		"search", filter.Search,
		"category", filter.Category,
		"status", filter.Status)
	return result, nil
}

// GetAsset retrieves an asset by its ID.
func (s *AssetService) GetAsset(ctx context.Context, id int64) (*model.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, err := s.assets.GetAssetByID(ctx, id)
	if err != nil {
		return nil, storeError("failed to retrieve asset", err)
	}
	return asset, nil
}

// CreateAsset validates raw and persists it. An empty status defaults to Active.
func (s *AssetService) CreateAsset(ctx context.Context, raw validation.RawAsset) (*model.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw.Status == "" {
		raw.Status = model.StatusActive
	}

	asset, err := s.validate(ctx, raw)
	if err != nil {
		return nil, err
	}

	id, err := s.assets.CreateAsset(ctx, asset)
	if err != nil {
		return nil, storeError("failed to create asset", err)
	}
	asset.ID = id

	s.logger.Info("asset created",
		"id", asset.ID,
		"name", asset.Name,
		"category", asset.Category,
		"cost", asset.Cost.StringFixed(2))
	return &asset, nil
}

// UpdateAsset validates raw and overwrites every field of the asset with id.
func (s *AssetService) UpdateAsset(ctx context.Context, id int64, raw validation.RawAsset) (*model.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, err := s.validate(ctx, raw)
	if err != nil {
		return nil, err
	}

	if err := s.assets.UpdateAsset(ctx, id, asset); err != nil {
		return nil, storeError("failed to update asset", err)
	}
	asset.ID = id

	s.logger.Info("asset updated", "id", id, "status", asset.Status)
	return &asset, nil
}

// DeleteAsset removes an asset permanently.
func (s *AssetService) DeleteAsset(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assets.DeleteAsset(ctx, id); err != nil {
		return storeError("failed to delete asset", err)
	}

	s.logger.Info("asset deleted", "id", id)
	return nil
}

// DuplicateCandidate builds an unsaved copy of the asset with id, dated today.
// The candidate is not persisted.
func (s *AssetService) DuplicateCandidate(ctx context.Context, id int64) (*model.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, err := s.assets.GetAssetByID(ctx, id)
	if err != nil {
		return nil, storeError("failed to retrieve asset", err)
	}

	candidate := asset.Duplicate(s.Today())
	return &candidate, nil
}

// CategorySummary aggregates the live assets by category.
func (s *AssetService) CategorySummary(ctx context.Context) ([]report.CategoryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.assets.ListLiveAssets(ctx)
	if err != nil {
		return nil, storeError("failed to generate summary", err)
	}
	return report.CategorySummary(live), nil
}

// DepreciationReport values the live depreciating assets as of today.
func (s *AssetService) DepreciationReport(ctx context.Context) (*DepreciationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.assets.ListLiveAssets(ctx)
	if err != nil {
		return nil, storeError("failed to generate depreciation report", err)
	}

	asOf := s.Today()
	return &DepreciationResult{AsOf: asOf, Rows: report.Depreciation(live, asOf)}, nil
}

// Vocabulary lists the values of v ordered by name.
func (s *AssetService) Vocabulary(ctx context.Context, v model.Vocabulary) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.refs.ListVocabulary(ctx, v)
	if err != nil {
		return nil, storeError("failed to load "+string(v)+" values", err)
	}
	return values, nil
}

// ExportCSV writes the assets matching filter to w and returns how many rows
// were written.
func (s *AssetService) ExportCSV(ctx context.Context, filter query.Filter, w io.Writer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.assets.ListAssets(ctx, filter)
	if err != nil {
		return 0, storeError("failed to export assets", err)
	}

	if err := export.WriteCSV(w, result.Items); err != nil {
		return 0, apperrors.InternalError("failed to write export", err)
	}

	s.logger.Info("assets exported", "count", result.Count)
	return result.Count, nil
}

func (s *AssetService) validate(ctx context.Context, raw validation.RawAsset) (model.Asset, error) {
	asset, err := s.validator.Validate(ctx, raw)
	if err == nil {
		return asset, nil
	}

	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return model.Asset{}, apperrors.ValidationErrorWithDetails("Validation failed", verr.Fields(), verr)
	}
	return model.Asset{}, storeError("failed to validate asset references", err)
}

// storeError maps a repository failure onto an AppError, keeping the cause.
func storeError(message string, err error) *apperrors.AppError {
	switch {
	case errors.Is(err, repository.ErrAssetNotFound):
		return apperrors.NotFoundError("asset", err)
	case errors.Is(err, repository.ErrConstraintViolation):
		return apperrors.ConstraintViolationError(message+": a referenced value does not exist or a limit was exceeded", err)
	case errors.Is(err, repository.ErrInvalidData):
		return apperrors.InvalidDataError(message+": a value does not fit the store", err)
	case errors.Is(err, repository.ErrCancelled):
		return apperrors.CancelledError(err)
	case errors.Is(err, repository.ErrConnectivity):
		return apperrors.StoreUnavailableError(message+": database unavailable", err)
	case errors.Is(err, repository.ErrIDAlreadySet):
		return apperrors.BadRequestError(message + ": asset already has an id")
	default:
		return apperrors.DatabaseError(message, err)
	}
}
