// Package api exposes frontendforge's compile/tokenize/parse pipeline as a
// small diagnostic HTTP API, built on chi for routing and a bearer JWT for
// auth, mirroring the teacher's server/api + server/middle + server/token
// trio.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/corvidlab/frontendforge/internal/fferrors"
	"github.com/corvidlab/frontendforge/internal/frontend"
	"github.com/corvidlab/frontendforge/internal/history"
	"github.com/corvidlab/frontendforge/internal/symtab"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// API holds the dependencies every handler needs.
type API struct {
	Secret  []byte
	History *history.Store
}

// Router builds the chi router for the diagnostic API: POST /v1/compile,
// POST /v1/tokenize, POST /v1/parse, GET /v1/history, all behind bearer
// JWT auth.
func (a API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(a.authMiddleware)

	r.Post("/v1/compile", a.handleCompile)
	r.Post("/v1/tokenize", a.handleTokenize)
	r.Post("/v1/parse", a.handleParse)
	r.Get("/v1/history", a.handleHistory)

	return r
}

type claimsKey struct{}

// authMiddleware validates a bearer JWT signed with a.Secret and stores
// its claims in the request context.
func (a API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		authz := req.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		raw := strings.TrimPrefix(authz, "Bearer ")

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return a.Secret, nil
		})
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token: "+err.Error())
			return
		}

		ctx := context.WithValue(req.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// IssueToken creates a bearer token signed with a.Secret, valid for ttl.
func (a API) IssueToken(subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(a.Secret)
	if err != nil {
		return "", fferrors.New("signing token", err)
	}
	return signed, nil
}

type compileRequest struct {
	RegexSource   string `json:"regex_source"`
	GrammarSource string `json:"grammar_source"`
}

type compileResponse struct {
	TraceID        string   `json:"trace_id"`
	StateCount     int      `json:"state_count"`
	AmbiguityCount int      `json:"ambiguity_count"`
	Warnings       []string `json:"warnings,omitempty"`
}

func (a API) handleCompile(w http.ResponseWriter, req *http.Request) {
	var body compileRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	fe := frontend.New(body.RegexSource, body.GrammarSource, frontend.Options{AllowAmbiguousGrammar: true})
	result, err := fe.Compile()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := compileResponse{
		TraceID:        result.TraceID,
		StateCount:     result.DFA.NumStates,
		AmbiguityCount: len(result.AmbiguityWarnings),
	}
	for _, c := range result.AmbiguityWarnings {
		resp.Warnings = append(resp.Warnings, c.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

type runRequest struct {
	RegexSource   string `json:"regex_source"`
	GrammarSource string `json:"grammar_source"`
	Text          string `json:"text"`
}

type tokenizeResponse struct {
	Tokens []tokenView `json:"tokens"`
}

type tokenView struct {
	Lexeme string `json:"lexeme"`
	Kind   string `json:"kind"`
}

func (a API) handleTokenize(w http.ResponseWriter, req *http.Request) {
	var body runRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	fe := frontend.New(body.RegexSource, body.GrammarSource, frontend.Options{AllowAmbiguousGrammar: true})
	tokens, err := fe.Tokenize(body.Text)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := tokenizeResponse{}
	for _, t := range tokens {
		resp.Tokens = append(resp.Tokens, tokenView{Lexeme: t.Lexeme, Kind: t.Kind})
	}
	writeJSON(w, http.StatusOK, resp)
}

type parseResponse struct {
	Accepted    bool   `json:"accepted"`
	SymbolTable string `json:"symbol_table"`
}

func (a API) handleParse(w http.ResponseWriter, req *http.Request) {
	var body runRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	fe := frontend.New(body.RegexSource, body.GrammarSource, frontend.Options{AllowAmbiguousGrammar: true})
	result, symbols, err := fe.Run(body.Text)

	if a.History != nil {
		rec := recordFor(body, result.Accepted, symbols)
		_ = a.History.Record(req.Context(), rec)
	}

	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, parseResponse{Accepted: result.Accepted, SymbolTable: symbols.String()})
}

func (a API) handleHistory(w http.ResponseWriter, req *http.Request) {
	if a.History == nil {
		writeError(w, http.StatusServiceUnavailable, "history store not configured")
		return
	}
	recs, err := a.History.Recent(req.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func recordFor(body runRequest, accepted bool, symbols *symtab.Table) history.RunRecord {
	rec := history.RunRecord{
		TraceID:     uuid.NewString(),
		RegexHash:   hashOf(body.RegexSource),
		GrammarHash: hashOf(body.GrammarSource),
		Accepted:    accepted,
		CreatedAt:   time.Now(),
	}
	if symbols != nil {
		rec.TokenCount = symbols.Len()
	}
	return rec
}

func hashOf(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
