// Package vault provides small named key-value stores sealed on disk. It
// backs the session token cache and the generic stores exposed to the UI.
package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// Key derivation uses a single SHA-256 pass with a fixed salt. The vault
// holds session tokens, not long-term secrets, and unlock happens on every
// app start, so a slow KDF is deliberately avoided.
const keySalt = "aura-vault-salt-2024"

// KeyCache owns the derived sealing key and computes it at most once per
// process. It is created in main and handed to the vault explicitly.
type KeyCache struct {
	mu  sync.Mutex
	key []byte
}

func NewKeyCache() *KeyCache {
	return &KeyCache{}
}

// Key returns the cached sealing key, deriving it on first use.
func (c *KeyCache) Key(passphrase string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key == nil {
		sum := sha256.Sum256([]byte(passphrase + keySalt))
		c.key = sum[:]
	}
	return append([]byte(nil), c.key...)
}

// Clear drops the cached key. Called on logout.
func (c *KeyCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = nil
}

// Vault manages named stores under a directory. Each store is one sealed
// file, <name>.store, holding a JSON object.
type Vault struct {
	dir        string
	passphrase string
	keys       *KeyCache

	mu     sync.Mutex
	stores map[string]*Store
}

func Open(dir, passphrase string, keys *KeyCache) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}
	return &Vault{
		dir:        dir,
		passphrase: passphrase,
		keys:       keys,
		stores:     make(map[string]*Store),
	}, nil
}

// Store loads (or creates) the named store. Instances are shared, so
// concurrent callers see each other's writes after Save.
func (v *Vault) Store(name string) (*Store, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.stores[name]; ok {
		return s, nil
	}

	s := &Store{
		path:   filepath.Join(v.dir, name+".store"),
		key:    v.keys.Key(v.passphrase),
		values: make(map[string]json.RawMessage),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	v.stores[name] = s
	return s, nil
}

// List returns the names of all stores present on disk.
func (v *Vault) List() ([]string, error) {
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".store") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".store"))
	}
	return names, nil
}

// Remove deletes the named store from disk and memory.
func (v *Vault) Remove(name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.stores, name)

	path := filepath.Join(v.dir, name+".store")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove store %s: %w", name, err)
	}
	return nil
}

// Store is a single sealed key-value file.
type Store struct {
	mu     sync.Mutex
	path   string
	key    []byte
	values map[string]json.RawMessage
}

func (s *Store) load() error {
	sealed, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read store file: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return fmt.Errorf("failed to initialize cipher: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return fmt.Errorf("store file %s is truncated", s.path)
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("failed to unseal store %s: %w", s.path, err)
	}

	return json.Unmarshal(plaintext, &s.values)
}

// Save seals the current contents back to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plaintext, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return fmt.Errorf("failed to initialize cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := append(nonce, aead.Seal(nil, nonce, plaintext, nil)...)

	if err := os.WriteFile(s.path, sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}

// Set stores value under key. The change is in memory until Save.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return nil
}

// Get returns the raw value stored under key.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.values[key]
	return raw, ok
}

// GetString returns the value under key decoded as a string.
func (s *Store) GetString(key string) (string, bool) {
	raw, ok := s.Get(key)
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

// Delete removes key. The change is in memory until Save.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// Size returns the encoded size of the value under key, 0 if absent.
func (s *Store) Size(key string) int {
	raw, ok := s.Get(key)
	if !ok {
		return 0
	}
	return len(raw)
}
