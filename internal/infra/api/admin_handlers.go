package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"training-registration/internal/domain/model"
	"training-registration/internal/infra/logging"
	"training-registration/internal/infra/metrics"
)

type loginRequest struct {
	APIKey string `json:"api_key"`
}

// adminLogin handles POST /api/v1/admin/login
func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !s.auth.Enabled() {
		metrics.IncAdminRequest("login", "disabled")
		writeError(w, http.StatusForbidden, "admin api disabled")
		return
	}
	if !s.auth.CheckKey(req.APIKey) {
		metrics.IncAdminRequest("login", "denied")
		logging.With(r.Context(), s.log).Warn().
			Str("ip", clientIP(r)).
			Str("key", logging.Redact(req.APIKey, s.opts.Dev)).
			Msg("admin login rejected")
		writeError(w, http.StatusUnauthorized, "invalid api key")
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		metrics.IncAdminRequest("login", "error")
		s.fail(w, r, err)
		return
	}
	metrics.IncAdminRequest("login", "ok")
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) listRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := s.regs.List(r.Context())
	if err != nil {
		metrics.IncAdminRequest("list", "error")
		s.fail(w, r, err)
		return
	}
	if regs == nil {
		regs = []*model.Registration{}
	}
	metrics.IncAdminRequest("list", "ok")
	w.Header().Set("X-Total-Count", strconv.Itoa(len(regs)))
	writeJSON(w, http.StatusOK, regs)
}

func (s *Server) getRegistration(w http.ResponseWriter, r *http.Request) {
	reg, err := s.regs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		metrics.IncAdminRequest("get", strconv.Itoa(statusFor(err)))
		s.fail(w, r, err)
		return
	}
	metrics.IncAdminRequest("get", "ok")
	writeJSON(w, http.StatusOK, reg)
}

type statusRequest struct {
	Status string `json:"status"`
}

// updateRegistrationStatus handles PATCH /api/v1/admin/registrations/{id}/status
func (s *Server) updateRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	status, err := model.ParseRegistrationStatus(req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	reg, err := s.regs.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		metrics.IncAdminRequest("update_status", strconv.Itoa(statusFor(err)))
		s.fail(w, r, err)
		return
	}
	metrics.IncAdminRequest("update_status", "ok")
	writeJSON(w, http.StatusOK, reg)
}

func (s *Server) listFallback(w http.ResponseWriter, r *http.Request) {
	recs, err := s.regs.Fallback(r.Context())
	if err != nil {
		metrics.IncAdminRequest("fallback", "error")
		s.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []model.FallbackRecord{}
	}
	metrics.IncAdminRequest("fallback", "ok")
	writeJSON(w, http.StatusOK, recs)
}
