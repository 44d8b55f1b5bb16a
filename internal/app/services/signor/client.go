// Package signor queries the SIGNOR relation feed and aggregates the
// tab-separated rows for a protein into the interaction summary schema.
package signor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domain "github.com/bioatlas/genesummary/internal/app/domain/signor"
	"github.com/bioatlas/genesummary/internal/app/metrics"
	"github.com/bioatlas/genesummary/internal/httputil"
	"github.com/bioatlas/genesummary/pkg/logger"
)

var (
	// ErrNoData reports that SIGNOR holds no relations for the accession.
	// It is a terminal outcome, not a service failure.
	ErrNoData = errors.New("no signor data")

	// ErrUnavailable reports that the upstream could not produce an answer.
	ErrUnavailable = errors.New("signor unavailable")
)

const (
	defaultTimeout    = 10 * time.Second
	defaultOrganismID = 9606
)

// Config controls the client. Zero fields fall back to the service defaults.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	OrganismID int
}

// Client fetches and aggregates relation rows. Safe for concurrent use.
type Client struct {
	http       *http.Client
	endpoint   *url.URL
	organismID int
	log        *logger.Logger
}

// New constructs a client for the feed endpoint in cfg.
func New(cfg Config, httpClient *http.Client, log *logger.Logger) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("signor base url required")
	}
	endpoint, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse signor base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	organismID := cfg.OrganismID
	if organismID == 0 {
		organismID = defaultOrganismID
	}
	if log == nil {
		log = logger.NewDefault("signor")
	}

	return &Client{
		http:       httpClient,
		endpoint:   endpoint,
		organismID: organismID,
		log:        log,
	}, nil
}

// FetchInteractions returns the aggregated relation summary for the protein
// with the given UniProt accession. ErrNoData means the feed holds nothing
// for it; errors wrapping ErrUnavailable mean the upstream could not answer.
func (c *Client) FetchInteractions(ctx context.Context, accession string) (domain.Summary, error) {
	body, err := c.fetch(ctx, accession)
	if err != nil {
		return domain.Summary{}, err
	}

	rows := parseRows(strings.TrimSpace(string(body)))
	if len(rows) == 0 {
		return domain.Summary{}, ErrNoData
	}
	return aggregate(rows, accession), nil
}

// fetch runs the feed request. One attempt, no retries.
func (c *Client) fetch(ctx context.Context, accession string) ([]byte, error) {
	requestURL := *c.endpoint
	q := requestURL.Query()
	q.Set("organism", strconv.Itoa(c.organismID))
	q.Set("id", accession)
	requestURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build signor request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest("signor", "transport_error", time.Since(start))
		c.log.WithField("accession", accession).WithError(err).Error("signor request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, truncated, _ := httputil.ReadAllWithLimit(resp.Body, httputil.ErrorBodyLimit)
		metrics.RecordUpstreamRequest("signor", "http_error", time.Since(start))
		statusErr := httputil.StatusError(resp.StatusCode, body, truncated)
		c.log.WithField("accession", accession).WithField("status", resp.StatusCode).WithError(statusErr).Error("signor http error")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, statusErr)
	}

	body, err := httputil.ReadAllStrict(resp.Body, httputil.BodyLimit)
	if err != nil {
		metrics.RecordUpstreamRequest("signor", "read_error", time.Since(start))
		c.log.WithField("accession", accession).WithError(err).Error("signor response read failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	metrics.RecordUpstreamRequest("signor", "ok", time.Since(start))
	return body, nil
}
