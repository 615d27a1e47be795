package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/certshowcase/internal/catalog"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// handleListCertifications returns every record, newest created first. Any
// of search, issuer, type, status or sort switches to the filtered listing.
func (s *Server) handleListCertifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		list []*models.Certification
		err  error
	)
	if hasCriteria(q.Has) {
		cr, perr := catalog.ParseCriteria(q)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", perr.Error())
			return
		}
		list, err = s.certifications.Search(r.Context(), cr)
	} else {
		list, err = s.certifications.List(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Certification{}
	}
	writeJSON(w, http.StatusOK, list)
}

func hasCriteria(has func(string) bool) bool {
	for _, key := range []string{"search", "issuer", "type", "status", "sort"} {
		if has(key) {
			return true
		}
	}
	return false
}

func (s *Server) handleListIssuers(w http.ResponseWriter, r *http.Request) {
	issuers, err := s.certifications.Issuers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if issuers == nil {
		issuers = []string{}
	}
	writeJSON(w, http.StatusOK, issuers)
}

func (s *Server) handleGetCertification(w http.ResponseWriter, r *http.Request) {
	c, err := s.certifications.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateCertification(w http.ResponseWriter, r *http.Request) {
	var in models.CertificationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	c, err := s.certifications.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCertification(w http.ResponseWriter, r *http.Request) {
	var in models.CertificationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	c, err := s.certifications.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCertification(w http.ResponseWriter, r *http.Request) {
	if err := s.certifications.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type skillRequest struct {
	SkillName string `json:"skill_name"`
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	list, err := s.skills.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Skill{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	skill, err := s.skills.Add(r.Context(), chi.URLParam(r, "id"), req.SkillName)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

// handleRemoveSkill deletes every skill of the certification named ?name=.
func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	n, err := s.skills.Remove(r.Context(), chi.URLParam(r, "id"), name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
