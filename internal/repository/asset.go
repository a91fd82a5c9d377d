package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fixed-assets-registry/internal/model"
	"fixed-assets-registry/internal/query"

	"github.com/shopspring/decimal"
)

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ListResult holds a listing and the totals shown alongside it.
type ListResult struct {
	Items     []model.Asset
	Count     int
	TotalCost decimal.Decimal
}

// AssetRepository is an interface for interacting with asset data.
type AssetRepository interface {
	ListAssets(ctx context.Context, filter query.Filter) (*ListResult, error)
	ListLiveAssets(ctx context.Context) ([]model.Asset, error)
	GetAssetByID(ctx context.Context, id int64) (*model.Asset, error)
	CreateAsset(ctx context.Context, asset model.Asset) (int64, error)
	UpdateAsset(ctx context.Context, id int64, asset model.Asset) error
	DeleteAsset(ctx context.Context, id int64) error
}

const assetColumns = `id, name, category, description, cost, purchase_date, location, status, serial_number, supplier, warranty_expiry, depreciation_rate`

// assetRepository is the concrete implementation of the AssetRepository interface.
type assetRepository struct {
	DB      DBTX
	Timeout time.Duration
}

// NewAssetRepository creates a new AssetRepository. A positive timeout bounds
// every statement.
func NewAssetRepository(db DBTX, timeout time.Duration) AssetRepository {
	return &assetRepository{DB: db, Timeout: timeout}
}

func (r *assetRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.Timeout)
}

// ListAssets returns the assets matching filter ordered by id, with count and
// total cost over the result.
func (r *assetRepository) ListAssets(ctx context.Context, filter query.Filter) (*ListResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pred := query.Build(filter)
	q := `SELECT ` + assetColumns + ` FROM fixed_assets` + pred.Where() + query.OrderBy

	assets, err := r.queryAssets(ctx, "list assets", q, pred.Args...)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Items: assets, Count: len(assets), TotalCost: decimal.Zero}
	for _, a := range assets {
		result.TotalCost = result.TotalCost.Add(a.Cost)
	}
	return result, nil
}

// ListLiveAssets returns every asset that has not been disposed of, ordered by id.
func (r *assetRepository) ListLiveAssets(ctx context.Context) ([]model.Asset, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := `SELECT ` + assetColumns + ` FROM fixed_assets WHERE status <> $1` + query.OrderBy
	return r.queryAssets(ctx, "list live assets", q, model.StatusDisposed)
}

// GetAssetByID retrieves a single asset by its ID.
func (r *assetRepository) GetAssetByID(ctx context.Context, id int64) (*model.Asset, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := `SELECT ` + assetColumns + ` FROM fixed_assets WHERE id = $1`

	a, err := scanAsset(r.DB.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		return nil, persistenceError("get asset by ID", err)
	}
	return &a, nil
}

// CreateAsset inserts a new asset and returns the id the store assigned.
// Inserts are not idempotent: callers must not blindly retry after a failure.
func (r *assetRepository) CreateAsset(ctx context.Context, asset model.Asset) (int64, error) {
	if !asset.IsNew() {
		return 0, fmt.Errorf("%w: %d", ErrIDAlreadySet, asset.ID)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := `
		INSERT INTO fixed_assets (name, category, description, cost, purchase_date, location, status, serial_number, supplier, warranty_expiry, depreciation_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var id int64
	err := r.DB.QueryRowContext(ctx, q,
		asset.Name,
		asset.Category,
		asset.Description,
		asset.Cost,
		asset.PurchaseDate,
		asset.Location,
		asset.Status,
		asset.SerialNumber,
		asset.Supplier,
		nullDate(asset.WarrantyExpiry),
		asset.DepreciationRate,
	).Scan(&id)
	if err != nil {
		return 0, persistenceError("create asset", err)
	}
	return id, nil
}

// UpdateAsset overwrites every field of the asset with the given id.
func (r *assetRepository) UpdateAsset(ctx context.Context, id int64, asset model.Asset) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := `
		UPDATE fixed_assets
		SET name = $1, category = $2, description = $3, cost = $4, purchase_date = $5, location = $6, status = $7, serial_number = $8, supplier = $9, warranty_expiry = $10, depreciation_rate = $11
		WHERE id = $12`

	result, err := r.DB.ExecContext(ctx, q,
		asset.Name,
		asset.Category,
		asset.Description,
		asset.Cost,
		asset.PurchaseDate,
		asset.Location,
		asset.Status,
		asset.SerialNumber,
		asset.Supplier,
		nullDate(asset.WarrantyExpiry),
		asset.DepreciationRate,
		id,
	)
	if err != nil {
		return persistenceError("update asset", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistenceError("update asset", err)
	}
	if rowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

// DeleteAsset removes an asset permanently.
func (r *assetRepository) DeleteAsset(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(ctx, `DELETE FROM fixed_assets WHERE id = $1`, id)
	if err != nil {
		return persistenceError("delete asset", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistenceError("delete asset", err)
	}
	if rowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *assetRepository) queryAssets(ctx context.Context, op, q string, args ...any) ([]model.Asset, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, persistenceError(op, err)
	}
	defer rows.Close()

	assets := []model.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, persistenceError(op, err)
		}
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError(op, err)
	}
	return assets, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(s scanner) (model.Asset, error) {
	var (
		a                                   model.Asset
		description, serialNumber, supplier sql.NullString
		warranty                            sql.NullTime
	)
	err := s.Scan(
		&a.ID,
		&a.Name,
		&a.Category,
		&description,
		&a.Cost,
		&a.PurchaseDate,
		&a.Location,
		&a.Status,
		&serialNumber,
		&supplier,
		&warranty,
		&a.DepreciationRate,
	)
	if err != nil {
		return model.Asset{}, err
	}

	a.Description = description.String
	a.SerialNumber = serialNumber.String
	a.Supplier = supplier.String
	a.PurchaseDate = model.Date(a.PurchaseDate)
	if warranty.Valid {
		w := model.Date(warranty.Time)
		a.WarrantyExpiry = &w
	}
	return a, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
