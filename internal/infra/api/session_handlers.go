package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"training-registration/internal/domain/model"
	"training-registration/internal/infra/adapters/device"
	"training-registration/internal/infra/logging"
)

type sessionResponse struct {
	Session *model.FormSession   `json:"session"`
	Actions []model.ClientAction `json:"actions"`
	Message string               `json:"message,omitempty"`
}

func respondSession(w http.ResponseWriter, status int, s *model.FormSession, actions *device.Actions) {
	list := actions.List()
	if list == nil {
		list = []model.ClientAction{}
	}
	msg := ""
	if s != nil {
		msg = s.Message
	}
	writeJSON(w, status, sessionResponse{Session: s, Actions: list, Message: msg})
}

type catalogResponse struct {
	Catalog  *model.Catalog  `json:"catalog"`
	Channels []model.Channel `json:"channels"`
	Deposit  int64           `json:"deposit"`
	Currency string          `json:"currency"`
	Terms    string          `json:"terms"`
}

// getCatalog handles GET /api/v1/catalog
func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		Catalog:  s.form.Catalog(),
		Channels: s.payment.Channels(),
		Deposit:  s.payment.DepositAmount(),
		Currency: s.opts.Currency,
		Terms:    s.opts.Terms,
	})
}

type startRequest struct {
	Device string `json:"device"`
}

// startSession handles POST /api/v1/sessions
// The device class comes from the body, or from the User-Agent when absent.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}
	dev := model.ClassifyDevice(r.UserAgent())
	if req.Device != "" {
		d, err := model.ParseDevice(req.Device)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		dev = d
	}
	sess, err := s.form.Start(r.Context(), dev)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondSession(w, http.StatusCreated, sess, nil)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.form.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondSession(w, http.StatusOK, sess, nil)
}

type fieldRequest struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// setField handles PATCH /api/v1/sessions/{id}/fields
func (s *Server) setField(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	sess, err := s.form.SetField(r.Context(), chi.URLParam(r, "id"), req.Name, req.Value)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondSession(w, http.StatusOK, sess, nil)
}

func (s *Server) next(w http.ResponseWriter, r *http.Request) {
	sess, err := s.form.Next(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondSession(w, http.StatusOK, sess, nil)
}

func (s *Server) back(w http.ResponseWriter, r *http.Request) {
	sess, err := s.form.Back(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondSession(w, http.StatusOK, sess, nil)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.form.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondSession(w, http.StatusOK, sess, nil)
}

// submitSession handles POST /api/v1/sessions/{id}/submit
// Degraded and failed submissions are reported through the session phase.
func (s *Server) submitSession(w http.ResponseWriter, r *http.Request) {
	ctx, actions := device.Attach(r.Context())
	sess, err := s.submit.Submit(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondSession(w, http.StatusOK, sess, actions)
}

type amountRequest struct {
	Kind string `json:"kind"`
}

func (s *Server) selectAmount(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	kind, err := model.ParseOptionKind(req.Kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	sess, err := s.payment.SelectAmount(r.Context(), chi.URLParam(r, "id"), kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondSession(w, http.StatusOK, sess, nil)
}

type channelRequest struct {
	Channel string `json:"channel"`
}

// selectChannel handles POST /api/v1/sessions/{id}/payment/channel
// The clipboard and dialer effects come back as client actions.
func (s *Server) selectChannel(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	ctx, actions := device.Attach(r.Context())
	sess, err := s.payment.SelectChannel(ctx, chi.URLParam(r, "id"), req.Channel)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondSession(w, http.StatusOK, sess, actions)
}

func (s *Server) skipPayment(w http.ResponseWriter, r *http.Request) {
	sess, err := s.payment.Skip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondSession(w, http.StatusOK, sess, nil)
}

func (s *Server) contact(w http.ResponseWriter, r *http.Request) {
	link, err := s.payment.ContactLink(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"link": link})
}

// fail logs unexpected errors and writes the mapped status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		logging.With(r.Context(), s.log).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeDomainError(w, err)
}
