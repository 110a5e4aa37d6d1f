package services

import (
	"encoding/json"
	"time"

	"github.com/simonbeirouti/aura/internal/errs"
	"github.com/simonbeirouti/aura/internal/infrastructure/vault"
)

const (
	storeDataKey    = "data"
	storeUpdatedKey = "last_updated"
	storeVersionKey = "version"

	storeSchemaVersion = 1
)

// StoreMetadata describes one named store without exposing its contents.
type StoreMetadata struct {
	StoreID     string `json:"store_id"`
	LastUpdated string `json:"last_updated,omitempty"`
	Size        int    `json:"size"`
	Version     int    `json:"version"`
}

// StoreService exposes generic sealed key-value stores to the client. Each
// store holds one opaque JSON document plus bookkeeping fields.
type StoreService struct {
	vault *vault.Vault
}

func NewStoreService(v *vault.Vault) *StoreService {
	return &StoreService{vault: v}
}

// Set replaces the store's document and stamps the update time.
func (s *StoreService) Set(storeID string, data json.RawMessage) error {
	store, err := s.vault.Store(storeID)
	if err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "failed to open store %s", storeID)
	}
	if err := store.Set(storeDataKey, data); err != nil {
		return err
	}
	if err := store.Set(storeUpdatedKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := store.Set(storeVersionKey, storeSchemaVersion); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "failed to persist store %s", storeID)
	}
	return nil
}

// Get returns the store's document, or a not-found error when the store has
// never been written.
func (s *StoreService) Get(storeID string) (json.RawMessage, error) {
	store, err := s.vault.Store(storeID)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err, "failed to open store %s", storeID)
	}
	raw, ok := store.Get(storeDataKey)
	if !ok {
		return nil, errs.New(errs.KindNotFound, "store %s has no data", storeID)
	}
	var data json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err, "store %s holds malformed data", storeID)
	}
	return data, nil
}

// Metadata returns bookkeeping for one store.
func (s *StoreService) Metadata(storeID string) (*StoreMetadata, error) {
	store, err := s.vault.Store(storeID)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err, "failed to open store %s", storeID)
	}

	meta := &StoreMetadata{
		StoreID: storeID,
		Size:    store.Size(storeDataKey),
		Version: storeSchemaVersion,
	}
	if updated, ok := store.GetString(storeUpdatedKey); ok {
		meta.LastUpdated = updated
	}
	if raw, ok := store.Get(storeVersionKey); ok {
		var v int
		if err := json.Unmarshal(raw, &v); err == nil {
			meta.Version = v
		}
	}
	return meta, nil
}

// List returns metadata for every store on disk.
func (s *StoreService) List() ([]StoreMetadata, error) {
	names, err := s.vault.List()
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, err, "failed to list stores")
	}
	metas := make([]StoreMetadata, 0, len(names))
	for _, name := range names {
		meta, err := s.Metadata(name)
		if err != nil {
			continue
		}
		metas = append(metas, *meta)
	}
	return metas, nil
}

// Delete removes the named store entirely.
func (s *StoreService) Delete(storeID string) error {
	if err := s.vault.Remove(storeID); err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "failed to delete store %s", storeID)
	}
	return nil
}
