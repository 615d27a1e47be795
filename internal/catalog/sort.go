package catalog

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// SortBy names an ordering of the listing.
type SortBy string

const (
	SortNewest SortBy = "newest"
	SortOldest SortBy = "oldest"
	SortTitle  SortBy = "title"
	SortIssuer SortBy = "issuer"
)

// SortModes lists the orderings in display order.
var SortModes = []SortBy{SortNewest, SortOldest, SortTitle, SortIssuer}

// ParseSort maps a user-supplied mode to a SortBy. Empty means newest.
func ParseSort(s string) (SortBy, error) {
	if s == "" {
		return SortNewest, nil
	}
	mode := SortBy(s)
	if !slices.Contains(SortModes, mode) {
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
	return mode, nil
}

// comparator returns the ordering for mode. Unknown modes order as newest.
//
// newest and oldest compare the effective date, issued_date with a fallback to
// created_at.
func comparator(mode SortBy) func(a, b *models.Certification) int {
	switch mode {
	case SortOldest:
		return func(a, b *models.Certification) int {
			return a.EffectiveDate().Compare(b.EffectiveDate())
		}
	case SortTitle:
		col := collate.New(language.English)
		return func(a, b *models.Certification) int {
			return col.CompareString(a.Title, b.Title)
		}
	case SortIssuer:
		col := collate.New(language.English)
		return func(a, b *models.Certification) int {
			return col.CompareString(a.Issuer, b.Issuer)
		}
	default:
		return func(a, b *models.Certification) int {
			return b.EffectiveDate().Compare(a.EffectiveDate())
		}
	}
}
