package model

// Vocabulary identifies one of the store-owned reference lists an asset
// field must be drawn from.
type Vocabulary string

const (
	VocabularyCategory Vocabulary = "category"
	VocabularyLocation Vocabulary = "location"
	VocabularyStatus   Vocabulary = "status"
)

// Vocabularies lists every reference vocabulary.
var Vocabularies = []Vocabulary{VocabularyCategory, VocabularyLocation, VocabularyStatus}

// Table returns the reference table and its value column.
func (v Vocabulary) Table() (table, column string, ok bool) {
	switch v {
	case VocabularyCategory:
		return "asset_categories", "category_name", true
	case VocabularyLocation:
		return "asset_locations", "location_name", true
	case VocabularyStatus:
		return "asset_status", "status_name", true
	default:
		return "", "", false
	}
}
