package validation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"fixed-assets-registry/internal/model"

	"github.com/shopspring/decimal"
)

// Reason classifies why a field was rejected.
type Reason string

const (
	ReasonMissing          Reason = "missing"
	ReasonNotANumber       Reason = "not-a-number"
	ReasonOutOfRange       Reason = "out-of-range"
	ReasonBadDateFormat    Reason = "bad-date-format"
	ReasonUnknownReference Reason = "unknown-reference"
)

// Field names used in FieldError.Field
const (
	FieldName             = "name"
	FieldCategory         = "category"
	FieldCost             = "cost"
	FieldPurchaseDate     = "purchase_date"
	FieldLocation         = "location"
	FieldStatus           = "status"
	FieldWarrantyExpiry   = "warranty_expiry"
	FieldDepreciationRate = "depreciation_rate"
	FieldSerialNumber     = "serial_number"
	FieldSupplier         = "supplier"
)

// Depreciation rate bounds, percent per year
var (
	MinDepreciationRate = decimal.Zero
	MaxDepreciationRate = decimal.NewFromInt(100)
)

// Store column limits
const (
	MaxNameLength     = 200
	MaxSerialLength   = 100
	MaxSupplierLength = 200

	// MoneyPlaces is the number of fractional digits stored for cost and rate.
	MoneyPlaces = 2
)

// MaxCost is the exclusive upper bound of a purchase cost (NUMERIC(14,2)).
var MaxCost = decimal.New(1, 12)

// RawAsset is an asset as entered by the user, before any parsing.
type RawAsset struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	Description      string `json:"description"`
	Cost             string `json:"cost"`
	PurchaseDate     string `json:"purchase_date"`
	Location         string `json:"location"`
	Status           string `json:"status"`
	SerialNumber     string `json:"serial_number"`
	Supplier         string `json:"supplier"`
	WarrantyExpiry   string `json:"warranty_expiry"`
	DepreciationRate string `json:"depreciation_rate"`
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidationError carries every violation found in one input.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Fields returns the violations keyed by field name. When a field has several
// violations only the first is kept.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		if _, ok := fields[fe.Field]; !ok {
			fields[fe.Field] = string(fe.Reason) + ": " + fe.Message
		}
	}
	return fields
}

// Has reports whether field was rejected for reason.
func (e *ValidationError) Has(field string, reason Reason) bool {
	for _, fe := range e.Errors {
		if fe.Field == field && fe.Reason == reason {
			return true
		}
	}
	return false
}

// LookupFunc reports whether value exists in vocabulary v.
type LookupFunc func(ctx context.Context, v model.Vocabulary, value string) (bool, error)

// Validator turns raw input into a validated asset.
type Validator struct {
	lookup LookupFunc
}

// NewValidator creates a Validator. A nil lookup skips vocabulary membership
// checks and leaves them to the store's foreign keys.
func NewValidator(lookup LookupFunc) *Validator {
	return &Validator{lookup: lookup}
}

// Validate checks every field of raw and returns the asset with an unset id,
// or a *ValidationError listing all violations. Lookup failures are returned
// as plain errors.
func (v *Validator) Validate(ctx context.Context, raw RawAsset) (model.Asset, error) {
	var errs []FieldError
	add := func(err error) {
		if fe, ok := err.(FieldError); ok {
			errs = append(errs, fe)
		}
	}

	name, err := ValidateName(raw.Name)
	add(err)

	cost, err := ParseCost(raw.Cost)
	add(err)

	purchaseDate, err := ParseDate(FieldPurchaseDate, raw.PurchaseDate)
	add(err)

	warranty, err := ParseOptionalDate(FieldWarrantyExpiry, raw.WarrantyExpiry)
	add(err)

	rate, err := ParseDepreciationRate(raw.DepreciationRate)
	add(err)

	serial, err := ValidateLength(FieldSerialNumber, raw.SerialNumber, MaxSerialLength)
	add(err)

	supplier, err := ValidateLength(FieldSupplier, raw.Supplier, MaxSupplierLength)
	add(err)

	refs := []struct {
		field string
		vocab model.Vocabulary
		value string
	}{
		{FieldCategory, model.VocabularyCategory, strings.TrimSpace(raw.Category)},
		{FieldLocation, model.VocabularyLocation, strings.TrimSpace(raw.Location)},
		{FieldStatus, model.VocabularyStatus, strings.TrimSpace(raw.Status)},
	}
	for _, ref := range refs {
		err := v.ValidateReference(ctx, ref.field, ref.vocab, ref.value)
		if err == nil {
			continue
		}
		if _, ok := err.(FieldError); !ok {
			return model.Asset{}, err
		}
		add(err)
	}

	if len(errs) > 0 {
		return model.Asset{}, &ValidationError{Errors: errs}
	}

	return model.Asset{
		Name:             name,
		Category:         refs[0].value,
		Description:      strings.TrimSpace(raw.Description),
		Cost:             cost,
		PurchaseDate:     purchaseDate,
		Location:         refs[1].value,
		Status:           refs[2].value,
		SerialNumber:     serial,
		Supplier:         supplier,
		WarrantyExpiry:   warranty,
		DepreciationRate: rate,
	}, nil
}

// ValidateReference checks that a reference field is selected and, when a
// lookup is configured, that it exists in its vocabulary.
func (v *Validator) ValidateReference(ctx context.Context, field string, vocab model.Vocabulary, value string) error {
	if value == "" {
		return FieldError{Field: field, Reason: ReasonMissing, Message: fmt.Sprintf("%s is required", field)}
	}
	if v.lookup == nil {
		return nil
	}

	ok, err := v.lookup(ctx, vocab, value)
	if err != nil {
		return fmt.Errorf("failed to look up %s %q: %w", vocab, value, err)
	}
	if !ok {
		return FieldError{Field: field, Reason: ReasonUnknownReference, Message: fmt.Sprintf("%s %q does not exist", field, value)}
	}
	return nil
}

// ValidateName returns the trimmed name, which must not be empty or longer
// than MaxNameLength characters.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", FieldError{Field: FieldName, Reason: ReasonMissing, Message: "name is required"}
	}
	return ValidateLength(FieldName, name, MaxNameLength)
}

// ValidateLength returns the trimmed value when it has at most max characters.
func ValidateLength(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > max {
		return "", FieldError{Field: field, Reason: ReasonOutOfRange, Message: fmt.Sprintf("%s must be at most %d characters", field, max)}
	}
	return value, nil
}

// hasExtraPlaces reports whether d carries non-zero digits beyond MoneyPlaces.
func hasExtraPlaces(d decimal.Decimal) bool {
	return !d.Equal(d.Truncate(MoneyPlaces))
}

// ParseCost parses a non-negative purchase cost.
func ParseCost(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, FieldError{Field: FieldCost, Reason: ReasonMissing, Message: "cost is required"}
	}

	cost, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, FieldError{Field: FieldCost, Reason: ReasonNotANumber, Message: fmt.Sprintf("cost %q is not a number", s)}
	}
	if cost.IsNegative() {
		return decimal.Zero, FieldError{Field: FieldCost, Reason: ReasonOutOfRange, Message: "cost must not be negative"}
	}
	if cost.GreaterThanOrEqual(MaxCost) {
		return decimal.Zero, FieldError{Field: FieldCost, Reason: ReasonOutOfRange, Message: "cost must be less than " + MaxCost.String()}
	}
	if hasExtraPlaces(cost) {
		return decimal.Zero, FieldError{Field: FieldCost, Reason: ReasonOutOfRange, Message: "cost must have at most 2 decimal places"}
	}
	return cost, nil
}

// ParseDepreciationRate parses an annual rate in [0, 100]. Empty input means 0.
func ParseDepreciationRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, FieldError{Field: FieldDepreciationRate, Reason: ReasonNotANumber, Message: fmt.Sprintf("depreciation rate %q is not a number", s)}
	}
	if rate.LessThan(MinDepreciationRate) || rate.GreaterThan(MaxDepreciationRate) {
		return decimal.Zero, FieldError{Field: FieldDepreciationRate, Reason: ReasonOutOfRange, Message: "depreciation rate must be between 0 and 100"}
	}
	if hasExtraPlaces(rate) {
		return decimal.Zero, FieldError{Field: FieldDepreciationRate, Reason: ReasonOutOfRange, Message: "depreciation rate must have at most 2 decimal places"}
	}
	return rate, nil
}

// ParseDate parses a required YYYY-MM-DD date.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, FieldError{Field: field, Reason: ReasonMissing, Message: fmt.Sprintf("%s is required", field)}
	}

	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, FieldError{Field: field, Reason: ReasonBadDateFormat, Message: fmt.Sprintf("%s %q is not a YYYY-MM-DD date", field, s)}
	}
	return d, nil
}

// ParseOptionalDate parses a YYYY-MM-DD date; empty input yields nil.
func ParseOptionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FromAsset converts a stored asset back into editable input.
func FromAsset(a model.Asset) RawAsset {
	raw := RawAsset{
		Name:             a.Name,
		Category:         a.Category,
		Description:      a.Description,
		Cost:             a.Cost.String(),
		PurchaseDate:     a.PurchaseDate.Format(model.DateLayout),
		Location:         a.Location,
		Status:           a.Status,
		SerialNumber:     a.SerialNumber,
		Supplier:         a.Supplier,
		DepreciationRate: a.DepreciationRate.String(),
	}
	if a.WarrantyExpiry != nil {
		raw.WarrantyExpiry = a.WarrantyExpiry.Format(model.DateLayout)
	}
	return raw
}
