package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAsset() Asset {
	warranty := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return Asset{
		ID:               42,
		Name:             "Dell Latitude 7440",
		Category:         "IT",
		Description:      "Finance laptop",
		Cost:             decimal.RequireFromString("1499.5"),
		PurchaseDate:     time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		Location:         "HQ",
		Status:           "In Repair",
		SerialNumber:     "SN-001",
		Supplier:         "Dell",
		WarrantyExpiry:   &warranty,
		DepreciationRate: decimal.NewFromInt(20),
	}
}

func TestTableRow(t *testing.T) {
	row := sampleAsset().TableRow()

	assert.Equal(t, []string{
		"42", "Dell Latitude 7440", "IT", "Finance laptop", "$1499.50", "2024-02-15",
		"HQ", "In Repair", "SN-001", "Dell", "2026-03-01",
	}, row)
}

func TestTableRow_NoWarranty(t *testing.T) {
	a := sampleAsset()
	a.WarrantyExpiry = nil

	row := a.TableRow()
	require.Len(t, row, 11)
	assert.Equal(t, NotAvailable, row[10])
}

func TestDuplicate(t *testing.T) {
	original := sampleAsset()
	today := time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC)

	c := original.Duplicate(today)

	assert.True(t, c.IsNew())
	assert.Equal(t, "Dell Latitude 7440 (Copy)", c.Name)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), c.PurchaseDate)
	assert.Equal(t, StatusActive, c.Status)
	assert.Empty(t, c.SerialNumber)

	assert.Equal(t, original.Category, c.Category)
	assert.Equal(t, original.Description, c.Description)
	assert.True(t, original.Cost.Equal(c.Cost))
	assert.Equal(t, original.Location, c.Location)
	assert.Equal(t, original.Supplier, c.Supplier)
	assert.Equal(t, *original.WarrantyExpiry, *c.WarrantyExpiry)
	assert.True(t, original.DepreciationRate.Equal(c.DepreciationRate))

	// the candidate must not share the warranty pointer with the original
	assert.NotSame(t, original.WarrantyExpiry, c.WarrantyExpiry)
	assert.Equal(t, int64(42), original.ID)
}

func TestIsLive(t *testing.T) {
	a := sampleAsset()
	assert.True(t, a.IsLive())

	a.Status = StatusDisposed
	assert.False(t, a.IsLive())
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(decimal.Zero))
	assert.Equal(t, "$10.10", FormatMoney(decimal.RequireFromString("10.1")))
	assert.Equal(t, "-$5.25", FormatMoney(decimal.RequireFromString("-5.25")))
}

func TestMarshalJSON(t *testing.T) {
	a := sampleAsset()
	a.WarrantyExpiry = nil

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, float64(42), out["id"])
	assert.Equal(t, "1499.50", out["cost"])
	assert.Equal(t, "2024-02-15", out["purchase_date"])
	assert.Equal(t, "20.00", out["depreciation_rate"])
	assert.Nil(t, out["warranty_expiry"])
}

func TestVocabularyTable(t *testing.T) {
	table, column, ok := VocabularyStatus.Table()
	assert.True(t, ok)
	assert.Equal(t, "asset_status", table)
	assert.Equal(t, "status_name", column)

	_, _, ok = Vocabulary("bogus").Table()
	assert.False(t, ok)
}
