package http

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/certshowcase/internal/catalog"
	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/models"
	"github.com/dmitrijs2005/certshowcase/internal/server/auth"
	"github.com/dmitrijs2005/certshowcase/internal/server/services"
)

const (
	certID      = "7d9f3c2e-1b4a-4c8e-9f6d-2a1b3c4d5e6f"
	validToken  = "good-token"
	staleToken  = "stale-token"
	adminUserID = "u-1"
)

type fakeCertifications struct {
	records  []*models.Certification
	searched *catalog.Criteria
	deleted  []string
	err      error
}

func (f *fakeCertifications) List(ctx context.Context) ([]*models.Certification, error) {
	return f.records, f.err
}

func (f *fakeCertifications) Search(ctx context.Context, cr catalog.Criteria) ([]*models.Certification, error) {
	f.searched = &cr
	return catalog.Apply(f.records, cr), f.err
}

func (f *fakeCertifications) Issuers(ctx context.Context) ([]string, error) {
	return catalog.Issuers(f.records), f.err
}

func (f *fakeCertifications) Get(ctx context.Context, id string) (*models.Certification, error) {
	for _, c := range f.records {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCertifications) Create(ctx context.Context, in models.CertificationInput) (*models.Certification, error) {
	if in.Title == "" {
		return nil, common.ErrorValidation
	}
	in.Normalize()
	c := &models.Certification{ID: certID, CreatedAt: time.Now()}
	c.Title, c.Issuer, c.Type, c.Status = in.Title, in.Issuer, in.Type, in.Status
	c.CertificateFileURL = in.CertificateFileURL
	f.records = append(f.records, c)
	return c, nil
}

func (f *fakeCertifications) Update(ctx context.Context, id string, in models.CertificationInput) (*models.Certification, error) {
	c, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Title = in.Title
	return c, nil
}

func (f *fakeCertifications) Delete(ctx context.Context, id string) error {
	n := len(f.records)
	f.records = slices.DeleteFunc(f.records, func(c *models.Certification) bool { return c.ID == id })
	if n == len(f.records) {
		return common.ErrorNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSkills struct {
	skills []*models.Skill
}

func (f *fakeSkills) List(ctx context.Context, certificationID string) ([]*models.Skill, error) {
	var out []*models.Skill
	for _, s := range f.skills {
		if s.CertificationID == certificationID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSkills) Add(ctx context.Context, certificationID, name string) (*models.Skill, error) {
	s := &models.Skill{ID: "s", CertificationID: certificationID, SkillName: name}
	f.skills = append(f.skills, s)
	return s, nil
}

func (f *fakeSkills) Remove(ctx context.Context, certificationID, name string) (int64, error) {
	n := len(f.skills)
	f.skills = slices.DeleteFunc(f.skills, func(s *models.Skill) bool {
		return s.CertificationID == certificationID && s.SkillName == name
	})
	return int64(n - len(f.skills)), nil
}

type fakeFiles struct {
	name    string
	content string
	err     error
}

func (f *fakeFiles) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (*services.UploadedFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(r)
	f.name, f.content = filename, string(b)
	return &services.UploadedFile{Key: "1-" + filename, URL: "http://files/certificates/1-" + filename}, nil
}

type fakeUsers struct {
	signedOut *auth.Claims
}

func (f *fakeUsers) SignIn(ctx context.Context, creds services.Credentials) (*models.Session, error) {
	if creds.Email != "admin@example.com" || creds.Password != "pw" {
		return nil, common.ErrInvalidCredentials
	}
	return &models.Session{AccessToken: validToken, RefreshToken: "r", User: models.User{ID: adminUserID, Email: creds.Email}}, nil
}

func (f *fakeUsers) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	if refreshToken != "r" {
		return nil, common.ErrInvalidToken
	}
	return &models.Session{AccessToken: validToken, RefreshToken: "r2"}, nil
}

func (f *fakeUsers) SignOut(ctx context.Context, claims *auth.Claims, refreshToken string) error {
	f.signedOut = claims
	return nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	switch token {
	case validToken:
		return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "jti"}, UserID: adminUserID}, nil
	case staleToken:
		return nil, common.ErrTokenExpired
	}
	return nil, common.ErrInvalidToken
}

func (f *fakeUsers) Session(ctx context.Context, userID string) (*models.User, *models.Profile, error) {
	return &models.User{ID: userID, Email: "admin@example.com"}, &models.Profile{UserID: userID, Username: "admin", IsAdmin: true}, nil
}
