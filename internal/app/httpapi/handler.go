// Package httpapi exposes the gene summary REST API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bioatlas/genesummary/internal/app/cache"
	genedomain "github.com/bioatlas/genesummary/internal/app/domain/gene"
	signordomain "github.com/bioatlas/genesummary/internal/app/domain/signor"
	"github.com/bioatlas/genesummary/internal/app/metrics"
	"github.com/bioatlas/genesummary/internal/app/services/signor"
	"github.com/bioatlas/genesummary/internal/app/services/uniprot"
	"github.com/bioatlas/genesummary/internal/middleware"
	"github.com/bioatlas/genesummary/pkg/logger"
)

// Cache keys carry a version tag so a schema change invalidates old entries.
const (
	geneCachePrefix   = "gene_summary:v2"
	signorCachePrefix = "signor_v1:"
)

// Wire error messages.
var (
	errGeneNotFound       = errors.New("Human gene not found in UniProt.")
	errUniProtUnavailable = errors.New("UniProt service unavailable")
	errSignorGeneNotFound = errors.New("Gene not found in UniProt.")
	errSignorUnavailable  = errors.New("SIGNOR service unavailable")
	errNotFound           = errors.New("Not Found")
)

// GeneFetcher resolves gene summaries from the protein knowledgebase.
type GeneFetcher interface {
	FetchSummary(ctx context.Context, symbol string) (genedomain.Summary, error)
	Exists(ctx context.Context, symbol string) (bool, error)
}

// InteractionFetcher resolves signaling relations for a protein accession.
type InteractionFetcher interface {
	FetchInteractions(ctx context.Context, accession string) (signordomain.Summary, error)
}

// Config carries the handler's identity and serving options.
type Config struct {
	AppName     string
	AppVersion  string
	FrontendDir string
	CacheTTL    time.Duration
}

// Handler bundles the HTTP endpoints for the gene summary API.
type Handler struct {
	cfg          Config
	genes        GeneFetcher
	interactions InteractionFetcher
	cache        *cache.Cache
	log          *logger.Logger
}

// NewHandler builds the endpoint bundle.
func NewHandler(cfg Config, genes GeneFetcher, interactions InteractionFetcher, c *cache.Cache, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	return &Handler{
		cfg:          cfg,
		genes:        genes,
		interactions: interactions,
		cache:        c,
		log:          log,
	}
}

// Routes returns the router with every endpoint registered. The frontend
// catch-all is registered last so it cannot shadow the API or health routes.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1/gene").Subrouter()
	api.HandleFunc("/{symbol}/exists", h.geneExists).Methods(http.MethodGet)
	api.HandleFunc("/{symbol}/signor", h.geneSignor).Methods(http.MethodGet)
	api.HandleFunc("/{symbol}", h.geneSummary).Methods(http.MethodGet)

	h.registerFrontend(r)
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.cfg.AppVersion,
	})
}

func (h *Handler) geneSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	symbol, err := SanitizeSymbol(mux.Vars(r)["symbol"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	if cached, ok := h.cache.Get(ctx, geneCacheKey(symbol)); ok {
		h.logOutcome(ctx, symbol, "HIT", http.StatusOK, start, nil)
		writeRawJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := h.genes.FetchSummary(ctx, symbol)
	if errors.Is(err, uniprot.ErrNotFound) {
		h.logOutcome(ctx, symbol, "MISS", http.StatusNotFound, start, err)
		writeError(w, http.StatusNotFound, errGeneNotFound)
		return
	}
	if err != nil {
		h.logOutcome(ctx, symbol, "MISS", http.StatusServiceUnavailable, start, err)
		writeError(w, http.StatusServiceUnavailable, errUniProtUnavailable)
		return
	}

	body, err := json.Marshal(summary)
	if err != nil {
		h.logOutcome(ctx, symbol, "MISS", http.StatusInternalServerError, start, err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("encode summary: %v", err))
		return
	}

	h.cache.Set(ctx, geneCacheKey(symbol), body, h.cfg.CacheTTL)
	h.logOutcome(ctx, symbol, "MISS", http.StatusOK, start, nil)
	writeRawJSON(w, http.StatusOK, body)
}

func (h *Handler) geneExists(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	symbol, err := SanitizeSymbol(mux.Vars(r)["symbol"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// A cached summary answers the question without touching the upstream.
	ctx := r.Context()
	if _, ok := h.cache.Get(ctx, geneCacheKey(symbol)); ok {
		h.logOutcome(ctx, symbol, "HIT", http.StatusOK, start, nil)
		writeJSON(w, http.StatusOK, existsResponse{Exists: true})
		return
	}

	exists, err := h.genes.Exists(ctx, symbol)
	if err != nil {
		h.logOutcome(ctx, symbol, "MISS", http.StatusServiceUnavailable, start, err)
		writeError(w, http.StatusServiceUnavailable, errUniProtUnavailable)
		return
	}

	h.logOutcome(ctx, symbol, "MISS", http.StatusOK, start, nil)
	writeJSON(w, http.StatusOK, existsResponse{Exists: exists})
}

func (h *Handler) geneSignor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	symbol, err := SanitizeSymbol(mux.Vars(r)["symbol"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	if cached, ok := h.cache.Get(ctx, signorCacheKey(symbol)); ok {
		h.logOutcome(ctx, symbol, "HIT", http.StatusOK, start, nil)
		writeRawJSON(w, http.StatusOK, cached)
		return
	}

	accession := h.resolveAccession(ctx, symbol)
	if accession == "" {
		h.logOutcome(ctx, symbol, "MISS", http.StatusNotFound, start, nil)
		writeError(w, http.StatusNotFound, errSignorGeneNotFound)
		return
	}

	data, err := h.interactions.FetchInteractions(ctx, accession)
	if errors.Is(err, signor.ErrNoData) {
		// Empty results are a valid answer but are not cached.
		h.logOutcome(ctx, symbol, "MISS", http.StatusOK, start, nil)
		writeJSON(w, http.StatusOK, signordomain.Empty())
		return
	}
	if err != nil {
		h.logOutcome(ctx, symbol, "MISS", http.StatusServiceUnavailable, start, err)
		writeError(w, http.StatusServiceUnavailable, errSignorUnavailable)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		h.logOutcome(ctx, symbol, "MISS", http.StatusInternalServerError, start, err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("encode interactions: %v", err))
		return
	}

	h.cache.Set(ctx, signorCacheKey(symbol), body, h.cfg.CacheTTL)
	h.logOutcome(ctx, symbol, "MISS", http.StatusOK, start, nil)
	writeRawJSON(w, http.StatusOK, body)
}

// resolveAccession finds the UniProt accession for symbol, preferring the
// cached summary document over a fresh lookup. Lookup failures of any kind
// read as "no accession"; the interaction endpoint reports them all as
// not-found rather than surfacing upstream errors.
func (h *Handler) resolveAccession(ctx context.Context, symbol string) string {
	if cached, ok := h.cache.Get(ctx, geneCacheKey(symbol)); ok {
		var doc struct {
			UniProtAccession string `json:"uniprot_accession"`
		}
		if err := json.Unmarshal(cached, &doc); err != nil {
			return ""
		}
		return doc.UniProtAccession
	}

	// The summary fetched here serves only accession resolution and is not
	// written back to the summary cache.
	summary, err := h.genes.FetchSummary(ctx, symbol)
	if err != nil {
		return ""
	}
	return summary.UniProtAccession
}

func (h *Handler) logOutcome(ctx context.Context, symbol, cacheStatus string, status int, start time.Time, err error) {
	entry := h.log.WithFields(map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"gene":       symbol,
		"cache":      cacheStatus,
		"status":     status,
		"elapsed_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Info("gene request")
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

func geneCacheKey(symbol string) string   { return geneCachePrefix + symbol }
func signorCacheKey(symbol string) string { return signorCachePrefix + symbol }

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeRawJSON serves an already-encoded document, byte for byte.
func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
