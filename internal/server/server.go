// Package server serves the Discord interactions webhook.
package server

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/julianstephens/objectives/internal/constants"
	"github.com/julianstephens/objectives/internal/discord"
	"github.com/julianstephens/objectives/internal/engine"
	"github.com/julianstephens/objectives/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Server answers slash commands by calling the engine.
type Server struct {
	svc       *engine.Service
	publicKey ed25519.PublicKey
	health    func(context.Context) error
	commands  map[string]commandHandler
}

type commandHandler func(ctx context.Context, ownerID string, in discord.Interaction) discord.InteractionResponse

// New creates a Server. health backs GET /healthz and may be nil.
func New(svc *engine.Service, publicKey ed25519.PublicKey, health func(context.Context) error) *Server {
	s := &Server{
		svc:       svc,
		publicKey: publicKey,
		health:    health,
	}
	s.commands = map[string]commandHandler{
		discord.CommandSubmit:          s.submit,
		discord.CommandCreateObjective: s.createObjective,
		discord.CommandListObjectives:  s.listObjectives,
		discord.CommandDeleteObjective: s.deleteObjective,
		discord.CommandRename:          s.rename,
		discord.CommandVisibility:      s.visibility,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /interactions", s.handleInteraction)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening for interactions", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			logger.Error("Health check failed", "error", err)
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, constants.MaxInteractionBodySize))
	if err != nil {
		logger.Error("Failed to read interaction body", "error", err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	signature := r.Header.Get("X-Signature-Ed25519")
	timestamp := r.Header.Get("X-Signature-Timestamp")
	if err := discord.VerifySignature(s.publicKey, signature, timestamp, body); err != nil {
		logger.Warn("Rejected interaction with bad signature", "remote_addr", r.RemoteAddr)
		http.Error(w, "invalid request signature", http.StatusUnauthorized)
		return
	}

	var in discord.Interaction
	if err := json.Unmarshal(body, &in); err != nil {
		logger.Warn("Malformed interaction", "error", err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	switch in.Type {
	case discord.InteractionPing:
		writeJSON(w, discord.Pong())
	case discord.InteractionApplicationCommand:
		name := ""
		if in.Data != nil {
			name = in.Data.Name
		}
		handler, ok := s.commands[name]
		if !ok {
			logger.Error("Unknown command", "command", name)
			http.Error(w, "", http.StatusBadRequest)
			return
		}
		ownerID := in.UserID()
		if ownerID == "" {
			writeJSON(w, discord.Reply(msgNoUser, true))
			return
		}
		logger.Debug("Handling command", "command", name, "owner", ownerID)
		writeJSON(w, handler(r.Context(), ownerID, in))
	default:
		logger.Warn("Unsupported interaction type", "type", in.Type)
		http.Error(w, "", http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to write response", "error", err)
	}
}
