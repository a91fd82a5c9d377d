// Package report computes the category summary and depreciation reports over
// live assets. Disposed assets never contribute to either report.
package report

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"fixed-assets-registry/internal/model"

	"github.com/shopspring/decimal"
)

const (
	daysPerYear = 365

	// Display width limits for asset names in the depreciation report
	maxNameWidth   = 25
	truncatedWidth = 22
	ellipsis       = "..."
)

var percentDayYears = decimal.NewFromInt(100 * daysPerYear)

// CategoryRow aggregates the live assets of one category.
type CategoryRow struct {
	Category string
	Count    int
	Total    decimal.Decimal
	Average  decimal.Decimal
}

// DepreciationRow is one asset's straight-line valuation.
type DepreciationRow struct {
	ID               int64
	Name             string
	DisplayName      string
	Category         string
	Cost             decimal.Decimal
	CurrentValue     decimal.Decimal
	DepreciationRate decimal.Decimal
	PurchaseDate     string
	DaysHeld         int64
}

// MarshalJSON renders amounts with two decimals.
func (r CategoryRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
		Total    string `json:"total_value"`
		Average  string `json:"average_value"`
	}{r.Category, r.Count, r.Total.StringFixed(2), r.Average.StringFixed(2)})
}

// MarshalJSON renders amounts with two decimals.
func (r DepreciationRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID               int64  `json:"id"`
		Name             string `json:"name"`
		DisplayName      string `json:"display_name"`
		Category         string `json:"category"`
		Cost             string `json:"cost"`
		CurrentValue     string `json:"current_value"`
		DepreciationRate string `json:"depreciation_rate"`
		PurchaseDate     string `json:"purchase_date"`
		DaysHeld         int64  `json:"days_held"`
	}{
		ID:               r.ID,
		Name:             r.Name,
		DisplayName:      r.DisplayName,
		Category:         r.Category,
		Cost:             r.Cost.StringFixed(2),
		CurrentValue:     r.CurrentValue.StringFixed(2),
		DepreciationRate: r.DepreciationRate.StringFixed(2),
		PurchaseDate:     r.PurchaseDate,
		DaysHeld:         r.DaysHeld,
	})
}

// CategorySummary groups live assets by category, ordered by total cost
// descending. Ties are broken by category name.
func CategorySummary(assets []model.Asset) []CategoryRow {
	index := make(map[string]int)
	rows := []CategoryRow{}

	for _, a := range assets {
		if !a.IsLive() {
			continue
		}
		i, ok := index[a.Category]
		if !ok {
			i = len(rows)
			index[a.Category] = i
			rows = append(rows, CategoryRow{Category: a.Category, Total: decimal.Zero})
		}
		rows[i].Count++
		rows[i].Total = rows[i].Total.Add(a.Cost)
	}

	for i := range rows {
		rows[i].Average = rows[i].Total.Div(decimal.NewFromInt(int64(rows[i].Count))).Round(2)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return lessFold(rows[i].Category, rows[j].Category)
	})
	return rows
}

// Depreciation values every live asset with a positive rate as of asOf,
// ordered by category then name.
func Depreciation(assets []model.Asset, asOf time.Time) []DepreciationRow {
	rows := []DepreciationRow{}

	for _, a := range assets {
		if !a.IsLive() || !a.DepreciationRate.IsPositive() {
			continue
		}
		rows = append(rows, DepreciationRow{
			ID:               a.ID,
			Name:             a.Name,
			DisplayName:      TruncateName(a.Name),
			Category:         a.Category,
			Cost:             a.Cost,
			CurrentValue:     CurrentValue(a, asOf),
			DepreciationRate: a.DepreciationRate,
			PurchaseDate:     a.PurchaseDate.Format(model.DateLayout),
			DaysHeld:         DaysBetween(a.PurchaseDate, asOf),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category)); c != 0 {
			return c < 0
		}
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c < 0
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Name < b.Name
	})
	return rows
}

// CurrentValue applies straight-line depreciation without a floor:
// round(cost × (1 − rate/100 × days/365), 2). Old assets with high rates
// come out negative.
func CurrentValue(a model.Asset, asOf time.Time) decimal.Decimal {
	days := decimal.NewFromInt(DaysBetween(a.PurchaseDate, asOf))

	// cost × (36500 − rate × days) / 36500 keeps the numerator exact
	remaining := percentDayYears.Sub(a.DepreciationRate.Mul(days))
	return a.Cost.Mul(remaining).Div(percentDayYears).Round(2)
}

// DaysBetween returns the whole calendar days from from to to. It is negative
// when to precedes from.
func DaysBetween(from, to time.Time) int64 {
	return int64(model.Date(to).Sub(model.Date(from)) / (24 * time.Hour))
}

// TruncateName shortens names longer than 25 characters to 22 plus "...".
func TruncateName(name string) string {
	r := []rune(name)
	if len(r) <= maxNameWidth {
		return name
	}
	return string(r[:truncatedWidth]) + ellipsis
}

// lessFold orders names case-insensitively, falling back to byte order so
// names differing only in case still sort deterministically.
func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
