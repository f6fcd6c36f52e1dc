package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	raerrors "github.com/stravarunart/runart-server/pkg/errors"
)

// DefaultTokenURL is the Strava OAuth token endpoint.
const DefaultTokenURL = "https://www.strava.com/oauth/token"

// Token represents the OAuth token structure we care about.
type Token struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// TokenSource returns a valid token.
// It is safe for concurrent use by multiple goroutines.
type TokenSource interface {
	Token(context.Context) (*Token, error)
	ForceRefresh(context.Context) (*Token, error)
}

// RefreshTokenSource exchanges a long-lived refresh token for short-lived
// access tokens and caches the result in memory. The configured refresh
// token is never mutated; a rotated refresh token from the provider is
// only kept for the lifetime of the process.
type RefreshTokenSource struct {
	clientID     string
	clientSecret string
	refreshToken string
	tokenURL     string
	httpClient   *http.Client

	mu     sync.Mutex
	cached *Token
}

func NewRefreshTokenSource(clientID, clientSecret, refreshToken string) *RefreshTokenSource {
	return &RefreshTokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		tokenURL:     DefaultTokenURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithTokenURL overrides the token endpoint, used by tests.
func (s *RefreshTokenSource) WithTokenURL(u string) *RefreshTokenSource {
	s.tokenURL = u
	return s
}

// Token returns a token, refreshing it if necessary.
func (s *RefreshTokenSource) Token(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Proactive refresh: renew if expired or expiring in the next minute.
	if s.cached != nil && time.Now().Add(1*time.Minute).Before(s.cached.Expiry) {
		return s.cached, nil
	}

	return s.refresh(ctx)
}

// ForceRefresh forcibly refreshes the token regardless of expiry.
func (s *RefreshTokenSource) ForceRefresh(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(ctx)
}

// refresh performs the HTTP exchange to get a new token. Caller holds s.mu.
func (s *RefreshTokenSource) refresh(ctx context.Context) (*Token, error) {
	refreshToken := s.refreshToken
	if s.cached != nil && s.cached.RefreshToken != "" {
		refreshToken = s.cached.RefreshToken
	}

	data := url.Values{}
	data.Set("client_id", s.clientID)
	data.Set("client_secret", s.clientSecret)
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, "POST", s.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, raerrors.ErrAuth.WithCause(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, raerrors.ErrAuth.WithMessage("refresh request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, raerrors.ErrAuth.WithMessage("refresh rejected").WithMetadata("status", resp.Status)
	}

	var result struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		ExpiresAt    int64  `json:"expires_at"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, raerrors.ErrAuth.WithMessage("failed to decode refresh response").WithCause(err)
	}

	newExpiry := time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	if result.ExpiresAt != 0 {
		newExpiry = time.Unix(result.ExpiresAt, 0)
	}

	s.cached = &Token{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Expiry:       newExpiry,
	}

	return s.cached, nil
}
