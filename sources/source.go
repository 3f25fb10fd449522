package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"vozdalei-backend/models"
)

const defaultUserAgent = "VozDaLei/1.0"

// Query carries the parameters shared by every legislative data source.
type Query struct {
	Text  string
	Year  int
	Limit int
}

// Source is a searchable provider of legislative documents.
type Source interface {
	Name() string
	Search(ctx context.Context, q Query) ([]models.LegislativeDocument, error)
}

// httpSource bundles the pieces every concrete client needs: a shared
// http.Client, a per-source rate limiter and the provider base URL.
type httpSource struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newHTTPSource(baseURL string, requestsPerSecond float64) httpSource {
	return httpSource{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 2),
	}
}

func (s *httpSource) get(ctx context.Context, path string, params url.Values, accept string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := s.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func (s *httpSource) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	body, err := s.get(ctx, path, params, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
