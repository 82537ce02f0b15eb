package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-fitness-coach/internal/storage"
)

// Key is the storage key of the single profile record.
const Key = "userProfile"

// Store reads and writes one user's profile record.
type Store struct {
	kv  storage.KV
	key string
}

// NewStore returns the store for the local single-user profile.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv, key: Key}
}

// NewOwnerStore returns the store for the profile owned by owner, e.g. a chat user.
func NewOwnerStore(kv storage.KV, owner string) *Store {
	if owner == "" {
		return NewStore(kv)
	}
	return &Store{kv: kv, key: Key + "/" + owner}
}

// Load returns the stored profile, or nil when no profile has been saved.
func (s *Store) Load(ctx context.Context) (*UserProfile, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var p UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("stored profile is invalid: %w", err)
	}
	return &p, nil
}

// Save replaces the stored profile. Incomplete profiles are never written.
func (s *Store) Save(ctx context.Context, p UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Reset deletes the stored profile.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to reset profile: %w", err)
	}
	return nil
}
