package model

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Status values the registry gives special meaning to.
const (
	StatusActive   = "Active"
	StatusDisposed = "Disposed"
)

// Presentation constants
const (
	DateLayout   = "2006-01-02"
	NotAvailable = "N/A"
	CopySuffix   = " (Copy)"
)

// Asset represents a tracked fixed asset (equipment, property).
// An ID of zero means the asset has not been persisted yet.
type Asset struct {
	ID               int64
	Name             string
	Category         string
	Description      string
	Cost             decimal.Decimal
	PurchaseDate     time.Time
	Location         string
	Status           string
	SerialNumber     string
	Supplier         string
	WarrantyExpiry   *time.Time
	DepreciationRate decimal.Decimal
}

// IsNew reports whether the asset has not been assigned an id by the store.
func (a Asset) IsNew() bool {
	return a.ID == 0
}

// IsLive reports whether the asset has not been disposed of.
func (a Asset) IsLive() bool {
	return a.Status != StatusDisposed
}

// Duplicate builds a new unsaved candidate from a, dated today.
func (a Asset) Duplicate(today time.Time) Asset {
	c := a
	c.ID = 0
	c.Name = a.Name + CopySuffix
	c.PurchaseDate = Date(today)
	c.Status = StatusActive
	c.SerialNumber = ""
	if a.WarrantyExpiry != nil {
		w := *a.WarrantyExpiry
		c.WarrantyExpiry = &w
	}
	return c
}

// TableRow returns the display-formatted field values in listing order.
func (a Asset) TableRow() []string {
	return []string{
		strconv.FormatInt(a.ID, 10),
		a.Name,
		a.Category,
		a.Description,
		FormatMoney(a.Cost),
		a.PurchaseDate.Format(DateLayout),
		a.Location,
		a.Status,
		a.SerialNumber,
		a.Supplier,
		formatOptionalDate(a.WarrantyExpiry),
	}
}

// FormatMoney renders an amount as fixed two-decimal currency text.
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// Date truncates t to its calendar date at midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return NotAvailable
	}
	return t.Format(DateLayout)
}

type assetJSON struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Description      string  `json:"description,omitempty"`
	Cost             string  `json:"cost"`
	PurchaseDate     string  `json:"purchase_date"`
	Location         string  `json:"location"`
	Status           string  `json:"status"`
	SerialNumber     string  `json:"serial_number,omitempty"`
	Supplier         string  `json:"supplier,omitempty"`
	WarrantyExpiry   *string `json:"warranty_expiry"`
	DepreciationRate string  `json:"depreciation_rate"`
}

// MarshalJSON renders dates as YYYY-MM-DD and amounts with two decimals.
func (a Asset) MarshalJSON() ([]byte, error) {
	out := assetJSON{
		ID:               a.ID,
		Name:             a.Name,
		Category:         a.Category,
		Description:      a.Description,
		Cost:             a.Cost.StringFixed(2),
		PurchaseDate:     a.PurchaseDate.Format(DateLayout),
		Location:         a.Location,
		Status:           a.Status,
		SerialNumber:     a.SerialNumber,
		Supplier:         a.Supplier,
		DepreciationRate: a.DepreciationRate.StringFixed(2),
	}
	if a.WarrantyExpiry != nil {
		w := a.WarrantyExpiry.Format(DateLayout)
		out.WarrantyExpiry = &w
	}
	return json.Marshal(out)
}
