package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/certshowcase/internal/catalog"
	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// ListCertifications returns every record, newest created first.
func (c *Client) ListCertifications(ctx context.Context) ([]*models.Certification, error) {
	return c.listCertifications(ctx, nil)
}

// SearchCertifications asks the server to apply cr.
func (c *Client) SearchCertifications(ctx context.Context, cr catalog.Criteria) ([]*models.Certification, error) {
	q := cr.Query()
	if len(q) == 0 {
		q.Set("sort", string(catalog.SortNewest))
	}
	return c.listCertifications(ctx, q)
}

func (c *Client) listCertifications(ctx context.Context, q url.Values) ([]*models.Certification, error) {
	var out []*models.Certification
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/certifications", query: q}, &out); err != nil {
		return nil, err
	}
	for i, rec := range out {
		if rec == nil {
			return nil, fmt.Errorf("%w: null certification at %d", common.ErrUnexpectedShape, i)
		}
		if err := rec.CheckShape(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) GetCertification(ctx context.Context, id string) (*models.Certification, error) {
	return c.certification(ctx, request{method: http.MethodGet, path: "/api/certifications/" + url.PathEscape(id)})
}

func (c *Client) CreateCertification(ctx context.Context, in models.CertificationInput) (*models.Certification, error) {
	return c.certification(ctx, request{method: http.MethodPost, path: "/api/certifications", body: in, auth: true})
}

// UpdateCertification replaces every editable field of id with in.
func (c *Client) UpdateCertification(ctx context.Context, id string, in models.CertificationInput) (*models.Certification, error) {
	return c.certification(ctx, request{method: http.MethodPut, path: "/api/certifications/" + url.PathEscape(id), body: in, auth: true})
}

func (c *Client) DeleteCertification(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/certifications/" + url.PathEscape(id), auth: true}, nil)
}

func (c *Client) certification(ctx context.Context, r request) (*models.Certification, error) {
	var out models.Certification
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if err := out.CheckShape(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Issuers returns the distinct issuers known to the server.
func (c *Client) Issuers(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/issuers"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSkills returns the skills of certificationID ordered by name.
func (c *Client) ListSkills(ctx context.Context, certificationID string) ([]*models.Skill, error) {
	var out []*models.Skill
	path := "/api/certifications/" + url.PathEscape(certificationID) + "/skills"
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return nil, err
	}
	for _, s := range out {
		if s == nil {
			return nil, fmt.Errorf("%w: null skill", common.ErrUnexpectedShape)
		}
		if err := s.CheckShape(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) AddSkill(ctx context.Context, certificationID, name string) (*models.Skill, error) {
	var out models.Skill
	path := "/api/certifications/" + url.PathEscape(certificationID) + "/skills"
	body := map[string]string{"skill_name": name}
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body, auth: true}, &out); err != nil {
		return nil, err
	}
	if err := out.CheckShape(); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveSkill deletes every skill of certificationID named name and returns
// how many went.
func (c *Client) RemoveSkill(ctx context.Context, certificationID, name string) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	path := "/api/certifications/" + url.PathEscape(certificationID) + "/skills"
	q := url.Values{"name": {name}}
	if err := c.do(ctx, request{method: http.MethodDelete, path: path, query: q, auth: true}, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}
