package authority

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"TokenSentinel/internal/logger"
	"TokenSentinel/internal/model"
	"TokenSentinel/internal/ticker"
)

// Outcome classifies a verification attempt for the caller. These are typed
// results, not errors: each maps to different user-facing phrasing.
type Outcome string

const (
	OutcomeNone        Outcome = ""            // verified facts returned
	OutcomeNotFound    Outcome = "not_found"   // confirmed absence
	OutcomeTimeout     Outcome = "timeout"     // authority unreachable within budget
	OutcomeUnavailable Outcome = "unavailable" // authority degraded or misbehaving
)

// RetryPolicy bounds the transport retries for a single candidate.
// Tests inject zero-delay policies.
type RetryPolicy struct {
	MaxRetries        int           // additional attempts after the first
	Delay             time.Duration // fixed pause between attempts
	PerAttemptTimeout time.Duration // seconds-scale; authority must fail fast
}

// DefaultRetryPolicy mirrors the production defaults.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:        2,
	Delay:             200 * time.Millisecond,
	PerAttemptTimeout: 5 * time.Second,
}

// notFoundPhrases are the only error-body texts treated as a definitive
// absence. Anything else on a 200 body is ambiguous and must not be cached.
var notFoundPhrases = []string{"not found", "ticker not found", "не найден"}

// Client verifies ticker candidates against the authority service.
type Client struct {
	baseURL string
	cache   *Cache
	http    *http.Client
	policy  RetryPolicy
}

// NewClient creates a verification client. The HTTP client carries no global
// timeout; per-attempt deadlines come from the retry policy.
func NewClient(baseURL string, cache *Cache, policy RetryPolicy) *Client {
	if policy.PerAttemptTimeout <= 0 {
		policy.PerAttemptTimeout = DefaultRetryPolicy.PerAttemptTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache,
		http:    &http.Client{},
		policy:  policy,
	}
}

// Verify extracts candidates from text and checks them against the authority
// in rank order. It returns the first verified symbol with its facts, or a
// non-empty Outcome explaining why there is none.
func (c *Client) Verify(ctx context.Context, text string) (string, *model.TickerFacts, Outcome) {
	log := logger.WithComponent("authority")

	candidates := ticker.Extract(text)
	if len(candidates) == 0 {
		return "", nil, OutcomeNotFound
	}

	for _, cand := range candidates {
		if valid, facts, ok := c.cache.Get(cand.Symbol); ok {
			if valid {
				return cand.Symbol, facts, OutcomeNone
			}
			continue // known-invalid, don't re-query
		}

		resp, err := c.getWithRetry(ctx, cand.Symbol)
		if err != nil {
			// A timeout signals systemic unavailability, not
			// candidate-specific absence: stop trying candidates.
			if isTimeout(err) {
				log.WithField("symbol", cand.Symbol).Warn("authority timeout")
				return "", nil, OutcomeTimeout
			}
			log.WithField("symbol", cand.Symbol).WithError(err).Warn("authority unreachable")
			return "", nil, OutcomeUnavailable
		}

		symbol, facts, outcome, tryNext := c.classify(cand.Symbol, resp)
		if !tryNext {
			return symbol, facts, outcome
		}
	}
	return "", nil, OutcomeNotFound
}

type response struct {
	status int
	body   []byte
}

// getWithRetry issues the lookup, retrying transport-level failures with a
// fixed delay. The last error wins the classification.
func (c *Client) getWithRetry(ctx context.Context, symbol string) (*response, error) {
	url := fmt.Sprintf("%s/tokens/%s", c.baseURL, symbol)

	var lastErr error
	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := c.getOnce(ctx, url)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt < c.policy.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.policy.Delay):
			}
		}
	}
	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, url string) (*response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.policy.PerAttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &response{status: resp.StatusCode, body: body}, nil
}

// classify maps one authority response onto the outcome table. tryNext means
// the caller should move on to the next candidate.
func (c *Client) classify(symbol string, resp *response) (string, *model.TickerFacts, Outcome, bool) {
	log := logger.WithComponent("authority")

	switch {
	case resp.status == http.StatusNotFound:
		// Definitive absence: safe to negative-cache.
		c.cache.Put(symbol, false, nil)
		return "", nil, OutcomeNotFound, true

	case resp.status >= 500:
		// Upstream degraded. Never cache, never blame the candidate.
		log.WithField("symbol", symbol).Warnf("authority upstream error: status=%d", resp.status)
		return "", nil, OutcomeUnavailable, false

	case resp.status == http.StatusOK:
		var payload any
		if err := json.Unmarshal(resp.body, &payload); err != nil {
			log.WithField("symbol", symbol).Warn("authority returned malformed JSON")
			return "", nil, OutcomeUnavailable, false
		}
		obj, ok := payload.(map[string]any)
		if !ok {
			log.WithField("symbol", symbol).Warn("authority returned non-object payload")
			return "", nil, OutcomeUnavailable, false
		}
		if errText := errorField(obj); errText != "" {
			if isNotFoundError(errText) {
				c.cache.Put(symbol, false, nil)
			}
			// Ambiguous upstream errors are never cached as invalid.
			return "", nil, OutcomeNotFound, true
		}
		facts := parseFacts(symbol, obj)
		c.cache.Put(symbol, true, facts)
		return symbol, facts, OutcomeNone, false
	}

	// Other statuses: try the next candidate, no negative cache.
	return "", nil, OutcomeNotFound, true
}

func errorField(obj map[string]any) string {
	v, ok := obj["error"]
	if !ok || v == nil {
		return ""
	}
	if b, isBool := v.(bool); isBool && !b {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func isNotFoundError(errText string) bool {
	lower := strings.ToLower(errText)
	for _, p := range notFoundPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
