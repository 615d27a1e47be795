// Package catalog derives the visible listing from the full record set: the
// filter/sort pipeline and the transition tracker that animates its changes.
package catalog

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// Criteria selects and orders certifications. Issuer, Type and Status accept
// an exact value or common.FilterAll; the empty string is treated as "all".
type Criteria struct {
	Search string
	Issuer string
	Type   string
	Status string
	SortBy SortBy
}

// DefaultCriteria is what the listing starts with.
func DefaultCriteria() Criteria {
	return Criteria{
		Issuer: common.FilterAll,
		Type:   common.FilterAll,
		Status: common.FilterAll,
		SortBy: SortNewest,
	}
}

// Matches reports whether c satisfies all four predicates of cr.
func (cr Criteria) Matches(c *models.Certification) bool {
	return matchesSearch(c, cr.Search) &&
		matchesExact(c.Issuer, cr.Issuer) &&
		matchesExact(string(c.Type), cr.Type) &&
		matchesExact(string(c.Status), cr.Status)
}

// Apply returns the records matching cr, ordered by cr.SortBy. The result is a
// new slice; records is left untouched. Equal sort keys keep input order.
func Apply(records []*models.Certification, cr Criteria) []*models.Certification {
	out := make([]*models.Certification, 0, len(records))
	for _, c := range records {
		if cr.Matches(c) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, comparator(cr.SortBy))
	return out
}

// IDs projects records to their identities, in order.
func IDs(records []*models.Certification) []string {
	ids := make([]string, 0, len(records))
	for _, c := range records {
		ids = append(ids, c.ID)
	}
	return ids
}

func matchesSearch(c *models.Certification, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Title), term) ||
		strings.Contains(strings.ToLower(c.Issuer), term)
}

func matchesExact(value, filter string) bool {
	return filter == "" || filter == common.FilterAll || value == filter
}
