package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"training-registration/internal/usecase"
)

type Options struct {
	RequestTimeout time.Duration
	SubmitLimit    int
	SubmitWindow   time.Duration
	Currency       string
	Terms          string
	Dev            bool
}

// Server exposes the registration flow and the staff API over HTTP.
type Server struct {
	form    usecase.FormUseCase
	submit  usecase.SubmissionUseCase
	payment usecase.PaymentUseCase
	regs    usecase.RegistrationUseCase
	auth    *AuthManager
	limiter RateLimiter
	opts    Options
	log     *zerolog.Logger
}

func NewServer(
	form usecase.FormUseCase,
	submit usecase.SubmissionUseCase,
	payment usecase.PaymentUseCase,
	regs usecase.RegistrationUseCase,
	auth *AuthManager,
	limiter RateLimiter,
	opts Options,
	logger *zerolog.Logger,
) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	compLog := logger.With().Str("component", "HTTPServer").Logger()
	return &Server{
		form:    form,
		submit:  submit,
		payment: payment,
		regs:    regs,
		auth:    auth,
		limiter: limiter,
		opts:    opts,
		log:     &compLog,
	}
}

// Router builds the chi router with the middleware chain applied.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(TraceID(s.log))
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Timeout(s.opts.RequestTimeout))

		r.Get("/catalog", s.getCatalog)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.startSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Patch("/fields", s.setField)
				r.Post("/next", s.next)
				r.Post("/back", s.back)
				r.Post("/reset", s.reset)
				r.With(RateLimit(s.limiter, "submit", s.opts.SubmitLimit, s.opts.SubmitWindow, s.log)).
					Post("/submit", s.submitSession)
				r.Post("/payment/amount", s.selectAmount)
				r.Post("/payment/channel", s.selectChannel)
				r.Post("/payment/skip", s.skipPayment)
				r.Get("/contact", s.contact)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(RateLimit(s.limiter, "admin_login", s.opts.SubmitLimit, s.opts.SubmitWindow, s.log)).
				Post("/login", s.adminLogin)
			r.Group(func(r chi.Router) {
				r.Use(s.auth.RequireAdmin)
				r.Get("/registrations", s.listRegistrations)
				r.Get("/registrations/{id}", s.getRegistration)
				r.Patch("/registrations/{id}/status", s.updateRegistrationStatus)
				r.Get("/fallback", s.listFallback)
			})
		})
	})
	return r
}
