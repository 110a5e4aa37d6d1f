package services

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/simonbeirouti/aura/internal/errs"
)

// PublicKeyCache holds the identity provider's signing certificates between
// fetches. It is created in main and handed to the auth service explicitly.
type PublicKeyCache struct {
	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
}

func NewPublicKeyCache() *PublicKeyCache {
	return &PublicKeyCache{}
}

func (c *PublicKeyCache) get(kid string) (*rsa.PublicKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if time.Now().After(c.expires) {
		return nil, false
	}
	key, ok := c.keys[kid]
	return key, ok
}

func (c *PublicKeyCache) put(keys map[string]*rsa.PublicKey, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = keys
	c.expires = time.Now().Add(ttl)
}

// AuthClaims is the verified identity extracted from an ID token.
type AuthClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

type idTokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// AuthService verifies RS256 ID tokens against the identity provider's
// published x509 certificates.
type AuthService struct {
	projectID string
	keysURL   string
	keyCache  *PublicKeyCache
	http      *http.Client
}

func NewAuthService(projectID, keysURL string, keyCache *PublicKeyCache) *AuthService {
	return &AuthService{
		projectID: projectID,
		keysURL:   keysURL,
		keyCache:  keyCache,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyToken validates the token's signature, issuer, audience and expiry,
// and returns the identity it asserts.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*AuthClaims, error) {
	if s.projectID == "" {
		return nil, errs.New(errs.KindConfiguration, "auth project id is not configured")
	}

	claims := &idTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token header has no kid")
		}
		return s.signingKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(s.projectID),
		jwt.WithIssuer("https://securetoken.google.com/"+s.projectID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errs.Wrap(errs.KindAuthRequired, err, "token verification failed")
	}
	if !parsed.Valid {
		return nil, errs.New(errs.KindAuthRequired, "token is not valid")
	}

	return &AuthClaims{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

func (s *AuthService) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := s.keyCache.get(kid); ok {
		return key, nil
	}

	keys, ttl, err := s.fetchKeys(ctx)
	if err != nil {
		return nil, err
	}
	s.keyCache.put(keys, ttl)

	key, ok := keys[kid]
	if !ok {
		return nil, fmt.Errorf("no signing key for kid %s", kid)
	}
	return key, nil
}

// fetchKeys downloads the provider's kid-to-certificate map and returns the
// parsed public keys with the TTL the provider advertises.
func (s *AuthService) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.keysURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build keys request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch signing keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("signing key endpoint returned status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode signing keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, certPEM := range certs {
		key, err := publicKeyFromCert(certPEM)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to parse certificate for kid %s: %w", kid, err)
		}
		keys[kid] = key
	}

	return keys, cacheTTL(resp.Header.Get("Cache-Control")), nil
}

func publicKeyFromCert(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate does not carry an RSA key")
	}
	return key, nil
}

// cacheTTL reads max-age from a Cache-Control header, defaulting to an hour.
func cacheTTL(cacheControl string) time.Duration {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if v, ok := strings.CutPrefix(directive, "max-age="); ok {
			if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second
			}
		}
	}
	return time.Hour
}
