package services

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"github.com/codyseavey/asin-analyzer/internal/config"
	"github.com/codyseavey/asin-analyzer/internal/metrics"
	"github.com/codyseavey/asin-analyzer/internal/models"
)

const (
	keepaProductEndpoint = "product"
	keepaSellerEndpoint  = "seller"
	keepaDefaultTimeout  = 30 * time.Second
)

// KeepaService handles API calls to Keepa for product and seller data
type KeepaService struct {
	client    *http.Client
	apiKey    string
	baseURL   string
	domainID  int
	offers    int
	statsDays int
	limiter   *rate.Limiter

	// Token accounting from the last response
	mu           sync.Mutex
	tokens       models.TokenStatus
	tokensSeenAt time.Time
	requestsMade int
}

// KeepaQuota is the token status reported by the last Keepa response
type KeepaQuota struct {
	Configured   bool       `json:"configured"`
	TokensLeft   int        `json:"tokensLeft"`
	RefillInMs   int        `json:"refillInMs"`
	RefillRate   int        `json:"refillRate"`
	RequestsMade int        `json:"requestsMade"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// NewKeepaService creates a new Keepa API service
func NewKeepaService(cfg config.KeepaConfig) *KeepaService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = keepaDefaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &KeepaService{
		client: &http.Client{
			Timeout: timeout,
		},
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
		domainID:  cfg.DomainID,
		offers:    cfg.Offers,
		statsDays: cfg.StatsDays,
		limiter:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// FetchProduct requests one product with offers, stock, rating, stats, buy
// box and history data. A non-200 answer is a *models.UpstreamStatusError.
func (s *KeepaService) FetchProduct(ctx context.Context, asin string) (*models.ProductResponse, error) {
	params := url.Values{}
	params.Set("asin", asin)
	params.Set("offers", strconv.Itoa(s.offers))
	params.Set("stock", "1")
	params.Set("rating", "1")
	params.Set("stats", strconv.Itoa(s.statsDays))
	params.Set("buybox", "1")
	params.Set("history", "1")

	body, err := s.get(ctx, keepaProductEndpoint, params)
	if err != nil {
		return nil, err
	}

	var productResp models.ProductResponse
	if err := decodeTolerant(body, &productResp); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	s.recordTokens(productResp.TokenStatus)

	return &productResp, nil
}

// FetchSellerInfo resolves a seller id to its display name and lifetime
// rating count. It returns nil, nil when Keepa knows no such seller.
func (s *KeepaService) FetchSellerInfo(ctx context.Context, sellerID string) (*models.SellerInfo, error) {
	params := url.Values{}
	params.Set("seller", sellerID)

	body, err := s.get(ctx, keepaSellerEndpoint, params)
	if err != nil {
		metrics.SellerLookupsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	var sellerResp models.SellerResponse
	if err := decodeTolerant(body, &sellerResp); err != nil {
		metrics.SellerLookupsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to decode seller response: %w", err)
	}
	s.recordTokens(sellerResp.TokenStatus)

	seller, ok := sellerResp.Sellers.Lookup(sellerID)
	if !ok {
		metrics.SellerLookupsTotal.WithLabelValues("absent").Inc()
		return nil, nil
	}

	metrics.SellerLookupsTotal.WithLabelValues("found").Inc()
	info := seller.Info(sellerID)
	return &info, nil
}

// GetQuota returns the token status from the most recent response
func (s *KeepaService) GetQuota() KeepaQuota {
	s.mu.Lock()
	defer s.mu.Unlock()

	quota := KeepaQuota{
		Configured:   s.apiKey != "",
		TokensLeft:   s.tokens.TokensLeft,
		RefillInMs:   s.tokens.RefillIn,
		RefillRate:   s.tokens.RefillRate,
		RequestsMade: s.requestsMade,
	}
	if !s.tokensSeenAt.IsZero() {
		seen := s.tokensSeenAt
		quota.UpdatedAt = &seen
	}
	return quota
}

func (s *KeepaService) recordTokens(status models.TokenStatus) {
	if status.Timestamp == 0 && status.TokensLeft == 0 && status.RefillRate == 0 {
		return
	}

	s.mu.Lock()
	s.tokens = status
	s.tokensSeenAt = time.Now()
	s.mu.Unlock()

	metrics.KeepaTokensLeft.Set(float64(status.TokensLeft))
	metrics.KeepaRefillRate.Set(float64(status.RefillRate))
}

// get performs a paced GET against a Keepa endpoint and returns the
// decompressed body.
func (s *KeepaService) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("keepa rate limiter: %w", err)
	}

	params.Set("key", s.apiKey)
	params.Set("domain", strconv.Itoa(s.domainID))
	reqURL := fmt.Sprintf("%s/%s?%s", s.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	s.mu.Lock()
	s.requestsMade++
	s.mu.Unlock()

	start := time.Now()
	resp, err := s.client.Do(req)
	metrics.KeepaRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.KeepaRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		// url.Error carries the request URL, which includes the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.KeepaRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Keepa: %s request returned status %d", endpoint, resp.StatusCode)
		return nil, &models.UpstreamStatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	reader, err := bodyReader(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	return body, nil
}

// bodyReader unwraps the Content-Encoding the server chose. Setting
// Accept-Encoding by hand disables the transport's own gzip handling.
func bodyReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

// decodeTolerant decodes a Keepa body, accepting fields of the wrong JSON
// type. encoding/json skips such fields and still fills the rest.
func decodeTolerant(body []byte, v any) error {
	err := json.Unmarshal(body, v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		log.Printf("Keepa: ignoring mistyped field %q (%s): %v", typeErr.Field, typeErr.Value, err)
		return nil
	}
	return err
}
