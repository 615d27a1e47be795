package catalog

import (
	"net/url"
	"slices"

	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// Issuers returns the distinct issuers of records for the issuer filter
// choices, in plain byte order: "AWS" sorts before "amazon".
func Issuers(records []*models.Certification) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, len(records))
	for _, c := range records {
		if _, ok := seen[c.Issuer]; ok {
			continue
		}
		seen[c.Issuer] = struct{}{}
		out = append(out, c.Issuer)
	}
	slices.Sort(out)
	return out
}

// ParseCriteria reads search, issuer, type, status and sort from query values.
func ParseCriteria(q url.Values) (Criteria, error) {
	cr := DefaultCriteria()
	cr.Search = q.Get("search")
	if v := q.Get("issuer"); v != "" {
		cr.Issuer = v
	}
	if v := q.Get("type"); v != "" {
		cr.Type = v
	}
	if v := q.Get("status"); v != "" {
		cr.Status = v
	}
	sortBy, err := ParseSort(q.Get("sort"))
	if err != nil {
		return Criteria{}, err
	}
	cr.SortBy = sortBy
	return cr, nil
}

// Query is the inverse of ParseCriteria; wildcard filters are omitted.
func (cr Criteria) Query() url.Values {
	q := url.Values{}
	if cr.Search != "" {
		q.Set("search", cr.Search)
	}
	for key, v := range map[string]string{"issuer": cr.Issuer, "type": cr.Type, "status": cr.Status} {
		if !matchesExact("", v) {
			q.Set(key, v)
		}
	}
	if cr.SortBy != "" && cr.SortBy != SortNewest {
		q.Set("sort", string(cr.SortBy))
	}
	return q
}
