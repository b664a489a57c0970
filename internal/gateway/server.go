package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/dto"
	"shareit/internal/logging"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// relayedHeaders are copied from the server response to the client.
var relayedHeaders = []string{"Content-Type", "Content-Disposition"}

// Server is the public entry point. It validates what it can without
// storage and forwards everything else to the ShareIt server.
type Server struct {
	cfg    *config.Config
	client *ServerClient
	server *http.Server
	logger *zerolog.Logger
	now    func() time.Time
}

func NewServer(cfg *config.Config, limiter domain.RateLimiter, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		client: NewServerClient(cfg.Gateway.ServerURL, cfg.Gateway.Timeout, cfg.Server.Auth),
		logger: logging.Component(logger, "gateway"),
		now:    time.Now,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	handler := api.RequestIDMiddleware(
		api.LoggingMiddleware("gateway", s.logger,
			RateLimit(cfg.Gateway.RateLimit, limiter, s.logger, mux)))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Gateway.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Gateway.Timeout + 5*time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	page := s.cfg.Server.Page
	id := requireID("id")

	mux.Handle("GET /users", s.forward())
	mux.Handle("POST /users", s.forward(requireBody[dto.UserCreate]()))
	mux.Handle("GET /users/{id}", s.forward(id))
	mux.Handle("PATCH /users/{id}", s.forward(id, requireBody[dto.UserUpdate]()))
	mux.Handle("DELETE /users/{id}", s.forward(id))

	mux.Handle("GET /items", s.forward(requireCaller, requirePage(page.ItemsSize)))
	mux.Handle("POST /items", s.forward(requireCaller, requireBody[dto.ItemCreate]()))
	mux.Handle("GET /items/search", s.forward(requireCaller, requirePage(page.ItemsSize)))
	mux.Handle("GET /items/{id}", s.forward(requireCaller, id))
	mux.Handle("PATCH /items/{id}", s.forward(requireCaller, id, requireBody[dto.ItemUpdate]()))
	mux.Handle("POST /items/{id}/comment", s.forward(requireCaller, id, requireBody[dto.CommentCreate]()))

	mux.Handle("POST /bookings", s.forward(requireCaller, requireBookingBody(s.currentTime)))
	mux.Handle("GET /bookings", s.forward(requireCaller, requireState, requirePage(page.BookingsSize)))
	mux.Handle("GET /bookings/owner", s.forward(requireCaller, requireState, requirePage(page.BookingsSize)))
	mux.Handle("GET /bookings/owner/export", s.forward(requireCaller, requireState))
	mux.Handle("GET /bookings/{id}", s.forward(requireCaller, id))
	mux.Handle("PATCH /bookings/{id}", s.forward(requireCaller, id, requireApproved))

	mux.Handle("POST /requests", s.forward(requireCaller, requireBody[dto.RequestCreate]()))
	mux.Handle("GET /requests", s.forward(requireCaller))
	mux.Handle("GET /requests/all", s.forward(requireCaller, requirePage(page.RequestsSize)))
	mux.Handle("GET /requests/{id}", s.forward(requireCaller, id))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (s *Server) currentTime() time.Time {
	return s.now()
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Str("upstream", s.cfg.Gateway.ServerURL).Msg("Gateway listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// forward runs the checks in order and relays the server's answer verbatim.
func (s *Server) forward(checks ...check) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		for _, c := range checks {
			if err := c(r, body); err != nil {
				s.writeCheckError(w, r, err)
				return
			}
		}

		resp, err := s.client.Forward(r.Context(), r, body)
		if err != nil {
			s.logger.Error().Err(err).Str("request_id", api.RequestIDFrom(r.Context())).Msg("server unavailable")
			writeError(w, http.StatusBadGateway, "server unavailable")
			return
		}
		defer resp.Body.Close()

		for _, h := range relayedHeaders {
			if v := resp.Header.Get(h); v != "" {
				w.Header().Set(h, v)
			}
		}
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			s.logger.Warn().Err(err).Msg("failed to relay response body")
		}
	})
}

func (s *Server) writeCheckError(w http.ResponseWriter, r *http.Request, err error) {
	var stateErr *models.UnknownStateError
	switch {
	case errors.As(err, &stateErr):
		writeError(w, http.StatusBadRequest, stateErr.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request check failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
