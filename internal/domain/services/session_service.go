package services

import (
	"log/slog"

	"github.com/simonbeirouti/aura/internal/errs"
	"github.com/simonbeirouti/aura/internal/infrastructure/vault"
)

const (
	sessionStoreName = "session"
	accessTokenKey   = "sb-access-token"
	refreshTokenKey  = "sb-refresh-token"
)

// SessionTokens is the pair of tokens returned to callers that refresh the
// session with the auth backend themselves.
type SessionTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionService persists auth session tokens in the sealed vault. It is the
// token source for backend requests: a request made without a stored access
// token fails with an auth-required error instead of going out anonymous.
type SessionService struct {
	vault  *vault.Vault
	keys   *vault.KeyCache
	logger *slog.Logger
}

func NewSessionService(v *vault.Vault, keys *vault.KeyCache, logger *slog.Logger) *SessionService {
	return &SessionService{vault: v, keys: keys, logger: logger}
}

// Store saves both tokens, replacing any previous session.
func (s *SessionService) Store(accessToken, refreshToken string) error {
	store, err := s.vault.Store(sessionStoreName)
	if err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "failed to open session store")
	}
	if err := store.Set(accessTokenKey, accessToken); err != nil {
		return err
	}
	if err := store.Set(refreshTokenKey, refreshToken); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "failed to persist session")
	}
	return nil
}

// Tokens returns the stored pair, or an auth-required error when either
// token is missing.
func (s *SessionService) Tokens() (*SessionTokens, error) {
	store, err := s.vault.Store(sessionStoreName)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err, "failed to open session store")
	}
	access, okA := store.GetString(accessTokenKey)
	refresh, okR := store.GetString(refreshTokenKey)
	if !okA || !okR || access == "" || refresh == "" {
		return nil, errs.New(errs.KindAuthRequired, "no active session; sign in first")
	}
	return &SessionTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// AccessToken implements the token source used by the relational backend
// client.
func (s *SessionService) AccessToken() (string, error) {
	tokens, err := s.Tokens()
	if err != nil {
		return "", err
	}
	return tokens.AccessToken, nil
}

// HasSession reports whether both tokens are present. Errors opening the
// store are treated as no session.
func (s *SessionService) HasSession() bool {
	store, err := s.vault.Store(sessionStoreName)
	if err != nil {
		return false
	}
	access, okA := store.GetString(accessTokenKey)
	refresh, okR := store.GetString(refreshTokenKey)
	return okA && okR && access != "" && refresh != ""
}

// Clear removes the stored tokens and drops the cached sealing key.
func (s *SessionService) Clear() error {
	store, err := s.vault.Store(sessionStoreName)
	if err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "failed to open session store")
	}
	store.Delete(accessTokenKey)
	store.Delete(refreshTokenKey)
	if err := store.Save(); err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "failed to persist session")
	}
	s.keys.Clear()
	return nil
}

// Status reports session state for diagnostics endpoints.
func (s *SessionService) Status() map[string]any {
	return map[string]any{
		"has_session": s.HasSession(),
	}
}
