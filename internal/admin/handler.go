// Package admin implements the read-mostly admin HTTP surface: a
// commit-history listing and a single pull action, mounted under a
// configurable URL prefix.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/kilupskalvis/doltctl/internal/dolt"
	"github.com/kilupskalvis/doltctl/internal/models"
)

// Facade is the slice of the command facade the admin surface needs.
// It is read-only except for the single pull action.
type Facade interface {
	Log(ctx context.Context, limit int) ([]models.Commit, error)
	Status(ctx context.Context, includeIgnored bool) ([]models.ChangeEntry, error)
	CurrentBranch(ctx context.Context) (string, error)
	IgnoredPatterns(ctx context.Context) ([]string, error)
	Remotes(ctx context.Context) ([]models.Remote, error)
	Pull(ctx context.Context, opts dolt.PullOptions) (models.PullResult, error)
	Ping(ctx context.Context) error
}

// Config holds the admin surface settings.
type Config struct {
	Prefix         string // URL prefix, default /admin/dolt
	Token          string // optional bearer token; empty disables auth
	MaxRequestBody int64  // bytes, for the pull endpoint
	LogLimit       int    // default commit count for the history view
}

// DefaultConfig returns reasonable defaults.
func DefaultConfig() *Config {
	return &Config{
		Prefix:         "/admin/dolt",
		MaxRequestBody: 1 << 20, // 1MB
		LogLimit:       50,
	}
}

// Handler creates the HTTP handler with all routes and middleware.
func Handler(svc Facade, cfg *Config, logger *slog.Logger) http.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "/admin/dolt"
	}
	if cfg.LogLimit <= 0 {
		cfg.LogLimit = 50
	}
	if cfg.MaxRequestBody <= 0 {
		cfg.MaxRequestBody = 1 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}

	prefix := strings.TrimSuffix(cfg.Prefix, "/")

	mux := http.NewServeMux()

	// Health endpoints (no auth)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("not ready: " + err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	auth := authMiddleware(cfg.Token)
	mux.Handle("GET "+prefix+"/commits", auth(http.HandlerFunc(makeCommitsHandler(svc, cfg))))
	mux.Handle("GET "+prefix+"/remotes", auth(http.HandlerFunc(makeRemotesHandler(svc))))
	mux.Handle("POST "+prefix+"/pull", auth(http.HandlerFunc(makePullHandler(svc, cfg))))

	return applyMiddleware(mux,
		recoveryMiddleware(logger),
		loggingMiddleware(logger),
		requestIDMiddleware,
	)
}

// applyMiddleware applies middleware in reverse order so the first in
// the list runs first.
func applyMiddleware(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// commitHistoryResponse is the context of the history view: commits,
// working-set status, branch, and ignore patterns.
type commitHistoryResponse struct {
	Branch          string               `json:"branch"`
	Commits         []commitView         `json:"commits"`
	Status          []models.ChangeEntry `json:"status"`
	IgnoredPatterns []string             `json:"ignored_patterns,omitempty"`
}

type commitView struct {
	Hash      string   `json:"hash"`
	ShortHash string   `json:"short_hash"`
	Author    string   `json:"author"`
	Date      string   `json:"date"`
	Message   string   `json:"message"`
	Parents   []string `json:"parents,omitempty"`
}

func makeCommitsHandler(svc Facade, cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := cfg.LogLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
				return
			}
			limit = n
		}

		commits, err := svc.Log(r.Context(), limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		status, err := svc.Status(r.Context(), false)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		branch, err := svc.CurrentBranch(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		// Display only; failure here should not break the view.
		ignored, _ := svc.IgnoredPatterns(r.Context())

		resp := commitHistoryResponse{
			Branch:          branch,
			Commits:         make([]commitView, 0, len(commits)),
			Status:          status,
			IgnoredPatterns: ignored,
		}
		for _, c := range commits {
			resp.Commits = append(resp.Commits, commitView{
				Hash:      c.Hash,
				ShortHash: c.ShortHash(),
				Author:    c.Author(),
				Date:      c.Date.Format("2006-01-02 15:04:05"),
				Message:   c.Message,
				Parents:   c.Parents,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func makeRemotesHandler(svc Facade) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remotes, err := svc.Remotes(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"remotes": remotes})
	}
}

type pullRequest struct {
	Remote string `json:"remote"`
	Branch string `json:"branch"`
}

type pullResponse struct {
	Result  models.PullResult `json:"result"`
	Summary string            `json:"summary"`
}

func makePullHandler(svc Facade, cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pullRequest
		if r.Body != nil {
			body := http.MaxBytesReader(w, r.Body, cfg.MaxRequestBody)
			data, err := io.ReadAll(body)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad_request", err.Error())
				return
			}
			if len(data) > 0 {
				if err := json.Unmarshal(data, &req); err != nil {
					writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
					return
				}
			}
		}

		result, err := svc.Pull(r.Context(), dolt.PullOptions{
			Remote: req.Remote,
			Branch: req.Branch,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, pullResponse{Result: result, Summary: result.Summary()})
	}
}

// writeDomainError maps the closed error taxonomy onto HTTP statuses.
// The admin surface never invents new error kinds; it only formats.
func writeDomainError(w http.ResponseWriter, err error) {
	var derr *dolt.Error
	if !errors.As(err, &derr) {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch derr.Kind {
	case dolt.KindValidation:
		status = http.StatusBadRequest
	case dolt.KindEmptyResult:
		status = http.StatusConflict
	case dolt.KindRemoteOperation:
		status = http.StatusBadGateway
	case dolt.KindConnection:
		status = http.StatusServiceUnavailable
	case dolt.KindProcedureNotAvailable:
		status = http.StatusNotImplemented
	}
	writeError(w, status, derr.Kind.String(), derr.Error())
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"error":"encode_failed"}`)
	}
}
