package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/glossa/internal/common"
	"github.com/bobmcallan/glossa/internal/interfaces"
	"github.com/bobmcallan/glossa/internal/models"
	"github.com/bobmcallan/glossa/internal/storage/embedded"
)

const (
	DefaultHTTPTimeout   = 10 * time.Second
	DefaultHTTPRateLimit = 2 // requests per second

	maxGlossaryBytes = 8 << 20
)

// HTTPSource fetches the glossary as a static JSON document.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// HTTPOption configures an HTTPSource
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.httpClient = client
	}
}

// WithHTTPTimeout sets the request timeout
func WithHTTPTimeout(timeout time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.httpClient.Timeout = timeout
	}
}

// WithHTTPRateLimit sets the maximum fetches per second
func WithHTTPRateLimit(requestsPerSecond int) HTTPOption {
	return func(s *HTTPSource) {
		if requestsPerSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithHTTPLogger sets the logger
func WithHTTPLogger(logger *common.Logger) HTTPOption {
	return func(s *HTTPSource) {
		s.logger = logger
	}
}

// NewHTTPSource creates a source that GETs url on every Fetch.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultHTTPRateLimit), DefaultHTTPRateLimit),
		logger:  common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) Name() string {
	return "http:" + s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]models.GlossaryTerm, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Error().Err(err).Str("url", s.url).Dur("elapsed", elapsed).Msg("Glossary fetch failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn().Str("url", s.url).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("Glossary fetch non-OK response")
		return nil, fmt.Errorf("glossary endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGlossaryBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxGlossaryBytes {
		return nil, fmt.Errorf("glossary document exceeds %d bytes", maxGlossaryBytes)
	}

	terms, err := embedded.Decode(body)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("url", s.url).Int("records", len(terms)).Dur("elapsed", elapsed).Msg("Glossary fetched")
	return terms, nil
}

var _ interfaces.TermSource = (*HTTPSource)(nil)
