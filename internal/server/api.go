package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/diag"
	"github.com/tmilicic/posthog/internal/normalize"
	"github.com/tmilicic/posthog/parser"
)

// Parse kinds accepted in QueryRequest.Kind.
const (
	KindStatements = "statements"
	KindSelect     = "select"
	KindExpr       = "expr"
)

// QueryRequest is the body of every POST endpoint.
type QueryRequest struct {
	Query string `json:"query"`
	// Kind selects the entry point. Statements, the default, parses a
	// script and reports every statement that fails.
	Kind string `json:"kind,omitempty"`
}

// APIResponse wraps all API responses with success/error info.
type APIResponse struct {
	Success     bool      `json:"success"`
	Data        any       `json:"data,omitempty"`
	Error       string    `json:"error,omitempty"`
	Diagnostics diag.List `json:"diagnostics,omitempty"`
}

// ParseResponse holds the syntax trees of a parse request.
type ParseResponse struct {
	Statements []ast.Statement `json:"statements,omitempty"`
	Expr       ast.Expression  `json:"expr,omitempty"`
}

// FormatResponse holds the canonical text of the query.
type FormatResponse struct {
	Formatted string `json:"formatted"`
}

// ExplainResponse holds the tree dump of the query.
type ExplainResponse struct {
	Explain string `json:"explain"`
}

// FingerprintResponse holds the normalized query and its hash.
type FingerprintResponse struct {
	Fingerprint string `json:"fingerprint"`
	Hash        string `json:"hash"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeSuccess(w http.ResponseWriter, data any) {
	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, APIResponse{Success: false, Error: message})
}

// writeDiagnostics reports rejected input. data carries whatever parsed
// before or around the errors.
func (s *Server) writeDiagnostics(w http.ResponseWriter, errs diag.List, data any) {
	s.writeJSON(w, http.StatusUnprocessableEntity, APIResponse{
		Success:     false,
		Data:        data,
		Error:       errs.Error(),
		Diagnostics: errs,
	})
}

// decode reads a QueryRequest. It writes the error response itself and
// reports whether the handler should go on.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (QueryRequest, bool) {
	var req QueryRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return req, false
	}
	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return req, false
	}
	switch req.Kind {
	case "":
		req.Kind = KindStatements
	case KindStatements, KindSelect, KindExpr:
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown kind %q", req.Kind))
		return req, false
	}
	return req, true
}

// parse runs the entry point named by req.Kind. Statements are parsed
// with recovery, so the result may hold both trees and diagnostics.
func (s *Server) parse(ctx context.Context, req QueryRequest) (ParseResponse, diag.List, error) {
	var (
		res  ParseResponse
		errs diag.List
		err  error
	)
	switch req.Kind {
	case KindSelect:
		var sel ast.SelectStatement
		if sel, err = parser.NewWithConfig(strings.NewReader(req.Query), s.parser).ParseSelect(); err == nil {
			res.Statements = []ast.Statement{sel}
		}
	case KindExpr:
		res.Expr, err = parser.NewWithConfig(strings.NewReader(req.Query), s.parser).ParseExpr()
	default:
		res.Statements, errs = parser.ParseScript(ctx, strings.NewReader(req.Query), s.parser)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, nil, ctxErr
		}
		return res, errs, nil
	}

	if err != nil {
		errs.Add(err)
		if len(errs) == 0 {
			return res, nil, err
		}
	}
	return res, errs, nil
}

// respond handles the outcome of parse for every endpoint. ok is false
// when a response was already written.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) (ParseResponse, bool) {
	req, ok := s.decode(w, r)
	if !ok {
		return ParseResponse{}, false
	}
	res, errs, err := s.parse(r.Context(), req)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.writeError(w, http.StatusServiceUnavailable, "parse timed out")
		return res, false
	case err != nil:
		s.log.Error().Err(err).Msg("unexpected parser failure")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return res, false
	case len(errs) > 0:
		s.log.Debug().Int("errors", len(errs)).Msg("rejected query")
		s.writeDiagnostics(w, errs, res)
		return res, false
	}
	return res, true
}

// handleHealth reports liveness.
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleParse returns the syntax tree as JSON.
// POST /parse
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	res, ok := s.respond(w, r)
	if !ok {
		return
	}
	s.writeSuccess(w, res)
}

// handleFormat returns the canonical text of the query.
// POST /format
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	res, ok := s.respond(w, r)
	if !ok {
		return
	}
	if res.Expr != nil {
		s.writeSuccess(w, FormatResponse{Formatted: parser.FormatExpr(res.Expr)})
		return
	}
	s.writeSuccess(w, FormatResponse{Formatted: parser.Format(res.Statements)})
}

// handleExplain returns the tree dump of the query.
// POST /explain
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	res, ok := s.respond(w, r)
	if !ok {
		return
	}
	if res.Expr != nil {
		s.writeSuccess(w, ExplainResponse{Explain: parser.Explain(res.Expr)})
		return
	}
	var sb strings.Builder
	for _, stmt := range res.Statements {
		sb.WriteString(parser.Explain(stmt))
	}
	s.writeSuccess(w, ExplainResponse{Explain: sb.String()})
}

// handleFingerprint returns the normalized query. Only a lex error
// rejects it; a query that does not parse still gets a fingerprint.
// POST /fingerprint
func (s *Server) handleFingerprint(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	fp, err := normalize.Fingerprint(req.Query, s.parser.Config)
	if err != nil {
		var errs diag.List
		errs.Add(err)
		s.writeDiagnostics(w, errs, nil)
		return
	}
	s.writeSuccess(w, FingerprintResponse{Fingerprint: fp, Hash: normalize.Hash(fp)})
}
