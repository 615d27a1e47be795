package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/dbx"
	"github.com/dmitrijs2005/certshowcase/internal/models"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/certifications"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/skills"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fakeStore is an in-memory stand-in for the five tables. Deleting a
// certification drops its skills, as the foreign key does.
type fakeStore struct {
	mu       sync.Mutex
	seq      int
	certs    []*models.Certification
	skills   []*models.Skill
	users    map[string]*models.User
	profiles map[string]*models.Profile
	tokens   map[string]*models.RefreshToken

	err error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]*models.User{},
		profiles: map[string]*models.Profile{},
		tokens:   map[string]*models.RefreshToken{},
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

type fakeRepoManager struct{ s *fakeStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return (*fakeUsers)(m.s) }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return (*fakeProfiles)(m.s) }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return (*fakeTokens)(m.s)
}
func (m *fakeRepoManager) Certifications(dbx.DBTX) certifications.Repository {
	return (*fakeCerts)(m.s)
}
func (m *fakeRepoManager) Skills(dbx.DBTX) skills.Repository { return (*fakeSkills)(m.s) }

type fakeCerts fakeStore

func (f *fakeCerts) List(ctx context.Context) ([]*models.Certification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := slices.Clone(f.certs)
	slices.Reverse(out)
	return out, nil
}

func (f *fakeCerts) Get(ctx context.Context, id string) (*models.Certification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.certs {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func fromInput(c *models.Certification, in *models.CertificationInput) {
	c.Title, c.Issuer, c.Type, c.Status = in.Title, in.Issuer, in.Type, in.Status
	c.IssuedDate, c.ExpiresDate = in.IssuedDate, in.ExpiresDate
	c.Description, c.OfficialLink, c.CertificateFileURL = in.Description, in.OfficialLink, in.CertificateFileURL
}

func (f *fakeCerts) Create(ctx context.Context, in *models.CertificationInput) (*models.Certification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now()
	c := &models.Certification{ID: (*fakeStore)(f).nextID("c"), CreatedAt: now, UpdatedAt: now}
	fromInput(c, in)
	f.certs = append(f.certs, c)
	return c, nil
}

func (f *fakeCerts) Update(ctx context.Context, id string, in *models.CertificationInput) (*models.Certification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.certs {
		if c.ID == id {
			fromInput(c, in)
			c.UpdatedAt = time.Now()
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCerts) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.certs)
	f.certs = slices.DeleteFunc(f.certs, func(c *models.Certification) bool { return c.ID == id })
	if len(f.certs) == n {
		return common.ErrorNotFound
	}
	f.skills = slices.DeleteFunc(f.skills, func(s *models.Skill) bool { return s.CertificationID == id })
	return nil
}

type fakeSkills fakeStore

func (f *fakeSkills) ListByCertification(ctx context.Context, certificationID string) ([]*models.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Skill{}
	for _, s := range f.skills {
		if s.CertificationID == certificationID {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b *models.Skill) int { return strings.Compare(a.SkillName, b.SkillName) })
	return out, nil
}

func (f *fakeSkills) Create(ctx context.Context, certificationID, name string) (*models.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !slices.ContainsFunc(f.certs, func(c *models.Certification) bool { return c.ID == certificationID }) {
		return nil, common.ErrorNotFound
	}
	s := &models.Skill{ID: (*fakeStore)(f).nextID("s"), CertificationID: certificationID, SkillName: name}
	f.skills = append(f.skills, s)
	return s, nil
}

func (f *fakeSkills) DeleteByName(ctx context.Context, certificationID, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.skills)
	f.skills = slices.DeleteFunc(f.skills, func(s *models.Skill) bool {
		return s.CertificationID == certificationID && s.SkillName == name
	})
	return int64(n - len(f.skills)), nil
}

type fakeUsers fakeStore

func (f *fakeUsers) Create(ctx context.Context, email string, hash []byte) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return nil, common.ErrorConflict
		}
	}
	u := &models.User{ID: (*fakeStore)(f).nextID("u"), Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeProfiles fakeStore

func (f *fakeProfiles) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeProfiles) Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := *p
	if existing, ok := f.profiles[p.UserID]; ok {
		saved.ID = existing.ID
	} else {
		saved.ID = (*fakeStore)(f).nextID("p")
	}
	f.profiles[p.UserID] = &saved
	return &saved, nil
}

type fakeTokens fakeStore

func (f *fakeTokens) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: expiresAt}
	return nil
}

func (f *fakeTokens) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[token]; ok {
		delete(f.tokens, token)
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTokens) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

func (f *fakeTokens) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, t := range f.tokens {
		if t.Expires.Before(time.Now()) {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

// fakeStorage records uploads in memory.
type fakeStorage struct {
	err     error
	objects map[string]string
}

func (f *fakeStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if f.err != nil {
		return f.err
	}
	b, _ := io.ReadAll(r)
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[key] = string(b)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "http://files/certificates/" + key
}
