package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/certshowcase/internal/catalog"
	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

type memStore struct {
	mu      sync.Mutex
	session *models.Session
}

func (m *memStore) Load() (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *memStore) Save(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

const certJSON = `{"id":"c1","title":"CKA","issuer":"CNCF","type":"certification","status":"completed","issued_date":"2023-01-15","expires_date":null,"description":null,"official_link":null,"certificate_file_url":null,"created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}`

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestListCertifications_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/certifications", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, "["+certJSON+"]")
	}))
	defer srv.Close()

	list, err := New(srv.URL).ListCertifications(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CKA", list[0].Title)
	require.NotNil(t, list[0].IssuedDate)
	assert.Equal(t, "2023-01-15", list[0].IssuedDate.String())
	assert.Nil(t, list[0].Description)
}

func TestListCertifications_RejectsUnexpectedShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown type", strings.Replace(certJSON, `"type":"certification"`, `"type":"diploma"`, 1)},
		{"missing title", strings.Replace(certJSON, `"title":"CKA"`, `"title":""`, 1)},
		{"not a list", certJSON},
		{"null row", "[null]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body
			if strings.HasPrefix(body, "{") && tt.name != "not a list" {
				body = "[" + body + "]"
			}
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			}))
			defer srv.Close()

			_, err := New(srv.URL).ListCertifications(context.Background())
			assert.ErrorIs(t, err, common.ErrUnexpectedShape)
		})
	}
}

func TestSearchCertifications_SendsCriteria(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		writeJSON(w, http.StatusOK, "[]")
	}))
	defer srv.Close()

	cr := catalog.DefaultCriteria()
	cr.Search = "docker"
	cr.SortBy = catalog.SortTitle
	list, err := New(srv.URL).SearchCertifications(context.Background(), cr)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "search=docker&sort=title", got)

	_, err = New(srv.URL).SearchCertifications(context.Background(), catalog.DefaultCriteria())
	require.NoError(t, err)
	assert.Equal(t, "sort=newest", got)
}

func TestErrorsMapToSentinels(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusNotFound, `{"error":"not_found","message":"not found"}`, common.ErrorNotFound},
		{http.StatusBadRequest, `{"error":"validation_failed","message":"title is required"}`, common.ErrorValidation},
		{http.StatusUnauthorized, `{"error":"invalid_token"}`, common.ErrorUnauthorized},
		{http.StatusBadGateway, `{"error":"upload_failed"}`, common.ErrorUploadFailed},
		{http.StatusInternalServerError, `oops`, common.ErrorInternal},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL).GetCertification(context.Background(), "c1")
			assert.ErrorIs(t, err, tt.want)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestSignIn_ShowsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error":"invalid_credentials","message":"Invalid login credentials"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).SignIn(context.Background(), "a@example.com", "x")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestAuthenticatedCallWithoutSession(t *testing.T) {
	c := New("http://127.0.0.1:1", WithTokenStore(&memStore{}))
	err := c.DeleteCertification(context.Background(), "c1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	err = New("http://127.0.0.1:1").DeleteCertification(context.Background(), "c1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshOnExpiredToken(t *testing.T) {
	var deletes int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body["refresh_token"])
			writeJSON(w, http.StatusOK, `{"access_token":"fresh","refresh_token":"refresh-2","user":{"id":"u1","email":"a@example.com"}}`)
		case "/api/certifications/c1":
			deletes++
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(w, http.StatusUnauthorized, `{"error":"token_expired","message":"token expired"}`)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	store := &memStore{session: &models.Session{AccessToken: "stale", RefreshToken: "refresh-1"}}
	c := New(srv.URL, WithTokenStore(store))

	require.NoError(t, c.DeleteCertification(context.Background(), "c1"))
	assert.Equal(t, 2, deletes)
	assert.Equal(t, "fresh", store.session.AccessToken)
	assert.Equal(t, "refresh-2", store.session.RefreshToken)
}

func TestRefreshFailureIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			writeJSON(w, http.StatusUnauthorized, `{"error":"refresh_token_expired","message":"refresh token expired"}`)
			return
		}
		writeJSON(w, http.StatusUnauthorized, `{"error":"token_expired"}`)
	}))
	defer srv.Close()

	store := &memStore{session: &models.Session{AccessToken: "stale", RefreshToken: "old"}}
	err := New(srv.URL, WithTokenStore(store)).DeleteCertification(context.Background(), "c1")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestSkills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/certifications/c1/skills", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, `[{"id":"s1","certification_id":"c1","skill_name":"Go"}]`)
		case http.MethodPost:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusCreated, `{"id":"s2","certification_id":"c1","skill_name":"`+body["skill_name"]+`"}`)
		case http.MethodDelete:
			assert.Equal(t, "Go", r.URL.Query().Get("name"))
			writeJSON(w, http.StatusOK, `{"deleted":2}`)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenStore(&memStore{session: &models.Session{AccessToken: "t"}}))
	ctx := context.Background()

	list, err := c.ListSkills(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, models.SkillNames(list))

	s, err := c.AddSkill(ctx, "c1", "Helm")
	require.NoError(t, err)
	assert.Equal(t, "Helm", s.SkillName)

	n, err := c.RemoveSkill(ctx, "c1", "Go")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		f, h, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "cka.pdf", h.Filename)
		assert.Equal(t, "%PDF", string(b))
		writeJSON(w, http.StatusCreated, `{"key":"1-cka.pdf","url":"http://files/certificates/1-cka.pdf"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenStore(&memStore{session: &models.Session{AccessToken: "t", ExpiresAt: time.Now().Add(time.Hour)}}))
	f, err := c.Upload(context.Background(), "cka.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "http://files/certificates/1-cka.pdf", f.URL)
}

func TestUpload_RefreshesExpiredSessionFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			writeJSON(w, http.StatusOK, `{"access_token":"fresh","refresh_token":"r2","user":{"id":"u1"}}`)
			return
		}
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusCreated, `{"key":"k","url":"http://files/k"}`)
	}))
	defer srv.Close()

	store := &memStore{session: &models.Session{AccessToken: "stale", RefreshToken: "r1", ExpiresAt: time.Now().Add(-time.Minute)}}
	_, err := New(srv.URL, WithTokenStore(store)).Upload(context.Background(), "a.png", strings.NewReader("x"))
	require.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"user":{"id":"u1","email":"a@example.com"},"profile":{"username":"admin","is_admin":true}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenStore(&memStore{session: &models.Session{AccessToken: "t"}}))
	user, profile, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)
	require.NotNil(t, profile)
	assert.True(t, profile.IsAdmin)
}
