// Package uniprot queries the UniProtKB search API and normalizes the
// canonical human Swiss-Prot entry for a gene into the summary schema.
package uniprot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domain "github.com/bioatlas/genesummary/internal/app/domain/gene"
	"github.com/bioatlas/genesummary/internal/app/metrics"
	"github.com/bioatlas/genesummary/internal/httputil"
	"github.com/bioatlas/genesummary/pkg/logger"
)

var (
	// ErrNotFound reports that no canonical human entry exists for the
	// symbol. It is a terminal outcome, not a service failure.
	ErrNotFound = errors.New("gene not found in uniprot")

	// ErrUnavailable reports that the upstream could not produce an answer.
	ErrUnavailable = errors.New("uniprot unavailable")
)

const (
	swissProtType  = "UniProtKB reviewed (Swiss-Prot)"
	searchPageSize = 5

	defaultTimeout    = 20 * time.Second
	defaultAttempts   = 2
	defaultOrganismID = 9606
)

// Config controls the client. Zero fields fall back to the service defaults;
// Attempts is the total number of tries, not the retries after the first.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Attempts   int
	OrganismID int
}

// Client fetches and normalizes protein records. Safe for concurrent use.
type Client struct {
	http       *http.Client
	endpoint   *url.URL
	attempts   int
	organismID int
	log        *logger.Logger
}

// New constructs a client for the search endpoint in cfg.
func New(cfg Config, httpClient *http.Client, log *logger.Logger) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("uniprot base url required")
	}
	endpoint, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse uniprot base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = defaultAttempts
	}
	organismID := cfg.OrganismID
	if organismID == 0 {
		organismID = defaultOrganismID
	}
	if log == nil {
		log = logger.NewDefault("uniprot")
	}

	return &Client{
		http:       httpClient,
		endpoint:   endpoint,
		attempts:   attempts,
		organismID: organismID,
		log:        log,
	}, nil
}

// FetchSummary returns the normalized summary for symbol. ErrNotFound means
// no reviewed human entry matched; errors wrapping ErrUnavailable mean the
// upstream could not answer.
func (c *Client) FetchSummary(ctx context.Context, symbol string) (domain.Summary, error) {
	payload, err := c.search(ctx, symbol)
	if err != nil {
		return domain.Summary{}, err
	}

	best, ok := selectCanonical(payload.Results, c.organismID)
	if !ok {
		return domain.Summary{}, ErrNotFound
	}
	return normalize(symbol, best), nil
}

// Exists reports whether a canonical human entry exists for symbol, under
// the same selection policy as FetchSummary.
func (c *Client) Exists(ctx context.Context, symbol string) (bool, error) {
	_, err := c.FetchSummary(ctx, symbol)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// search runs the exact-match query, retrying transport failures up to the
// configured attempt count. A 404 is terminal not-found; any other non-2xx
// status fails immediately without retry.
func (c *Client) search(ctx context.Context, symbol string) (*searchResponse, error) {
	requestURL := *c.endpoint
	q := requestURL.Query()
	q.Set("query", fmt.Sprintf("gene_exact:%s AND organism_id:%d AND reviewed:true", symbol, c.organismID))
	q.Set("format", "json")
	q.Set("size", strconv.Itoa(searchPageSize))
	requestURL.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("build uniprot request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			metrics.RecordUpstreamRequest("uniprot", "transport_error", time.Since(start))
			c.log.WithField("gene", symbol).WithField("attempt", attempt).WithError(err).Warn("uniprot request failed")
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			metrics.RecordUpstreamRequest("uniprot", "not_found", time.Since(start))
			return nil, ErrNotFound
		}
		if resp.StatusCode >= 400 {
			body, truncated, _ := httputil.ReadAllWithLimit(resp.Body, httputil.ErrorBodyLimit)
			resp.Body.Close()
			metrics.RecordUpstreamRequest("uniprot", "http_error", time.Since(start))
			statusErr := httputil.StatusError(resp.StatusCode, body, truncated)
			c.log.WithField("gene", symbol).WithField("status", resp.StatusCode).WithError(statusErr).Error("uniprot http error")
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, statusErr)
		}

		body, err := httputil.ReadAllStrict(resp.Body, httputil.BodyLimit)
		resp.Body.Close()
		if err != nil {
			metrics.RecordUpstreamRequest("uniprot", "read_error", time.Since(start))
			c.log.WithField("gene", symbol).WithField("attempt", attempt).WithError(err).Warn("uniprot response read failed")
			lastErr = err
			continue
		}

		var payload searchResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			metrics.RecordUpstreamRequest("uniprot", "decode_error", time.Since(start))
			return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
		}
		metrics.RecordUpstreamRequest("uniprot", "ok", time.Since(start))
		return &payload, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrUnavailable, c.attempts, lastErr)
}

// selectCanonical keeps human reviewed Swiss-Prot entries and picks the one
// with the highest annotation score, the first-listed entry winning ties.
func selectCanonical(results []entry, organismID int) (entry, bool) {
	var reviewed []entry
	for _, r := range results {
		if r.Organism.TaxonID != organismID {
			continue
		}
		if r.EntryType != swissProtType {
			continue
		}
		reviewed = append(reviewed, r)
	}
	if len(reviewed) == 0 {
		return entry{}, false
	}

	best := reviewed[0]
	bestScore := annotationScore(best)
	for _, r := range reviewed[1:] {
		if s := annotationScore(r); s > bestScore {
			best, bestScore = r, s
		}
	}
	return best, true
}

func annotationScore(e entry) float64 {
	v, err := e.AnnotationScore.Float64()
	if err != nil {
		return 0
	}
	return v
}
