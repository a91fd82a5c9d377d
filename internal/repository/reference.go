package repository

import (
	"context"
	"fmt"
	"time"

	"fixed-assets-registry/internal/model"
)

// ReferenceRepository reads the store-owned vocabularies. It never writes them.
type ReferenceRepository interface {
	ListVocabulary(ctx context.Context, v model.Vocabulary) ([]string, error)
	VocabularyContains(ctx context.Context, v model.Vocabulary, value string) (bool, error)
}

type referenceRepository struct {
	DB      DBTX
	Timeout time.Duration
}

// NewReferenceRepository creates a new ReferenceRepository.
func NewReferenceRepository(db DBTX, timeout time.Duration) ReferenceRepository {
	return &referenceRepository{DB: db, Timeout: timeout}
}

func (r *referenceRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.Timeout)
}

// ListVocabulary returns the values of v ordered by name.
func (r *referenceRepository) ListVocabulary(ctx context.Context, v model.Vocabulary) ([]string, error) {
	table, column, ok := v.Table()
	if !ok {
		return nil, fmt.Errorf("unknown vocabulary %q", v)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	// table and column come from a fixed mapping, never from input
	q := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`, column, table, column)

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, persistenceError("list "+string(v)+" vocabulary", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, persistenceError("list "+string(v)+" vocabulary", err)
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("list "+string(v)+" vocabulary", err)
	}
	return values, nil
}

// VocabularyContains checks whether value exists in v.
func (r *referenceRepository) VocabularyContains(ctx context.Context, v model.Vocabulary, value string) (bool, error) {
	table, column, ok := v.Table()
	if !ok {
		return false, fmt.Errorf("unknown vocabulary %q", v)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)`, table, column)

	var exists bool
	if err := r.DB.QueryRowContext(ctx, q, value).Scan(&exists); err != nil {
		return false, persistenceError("check "+string(v)+" vocabulary", err)
	}
	return exists, nil
}
