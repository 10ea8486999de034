package session

import (
	"fmt"
	"sync"
)

// Token slot names. At most one slot is treated as active at a time;
// [Store.GetActiveToken] is the only arbiter between them.
const (
	SlotUser  = "token"
	SlotAdmin = "admin_token"
)

// purgedKey marks that the one-time startup sweep of stale slots has run.
const purgedKey = "session_purged"

// Store is the single source of truth for who is currently authenticated
// and with what privilege. All slot reads and writes go through it; nothing
// else touches the underlying [Storage].
//
// Identity is recomputed from storage on every lookup rather than cached,
// so token mutation by another process is observed on the next call.
type Store struct {
	storage Storage

	mu     sync.Mutex
	purged bool
}

// NewStore creates a session store over the given storage backend.
func NewStore(storage Storage) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Store{storage: storage}
}

// GetActiveToken returns the active credential token: the admin slot when
// present and valid, else the user slot when present and valid, else empty.
//
// Any slot found holding an invalid token is evicted from storage as a side
// effect, so stale tokens do not linger for later callers.
func (s *Store) GetActiveToken() string {
	s.startupPurge()

	for _, slot := range []string{SlotAdmin, SlotUser} {
		token, ok := s.storage.Get(slot)
		if !ok || token == "" {
			continue
		}
		if !IsValid(token) {
			_ = s.storage.Delete(slot)
			continue
		}
		return token
	}
	return ""
}

// startupPurge sweeps both slots once per process, mirroring the one-shot
// stale-token purge the stored flag records.
func (s *Store) startupPurge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.purged {
		return
	}
	s.purged = true

	for _, slot := range []string{SlotAdmin, SlotUser} {
		if token, ok := s.storage.Get(slot); ok && !IsValid(token) {
			_ = s.storage.Delete(slot)
		}
	}
	_ = s.storage.Set(purgedKey, "1")
}

// Identity derives the current identity from the active token.
// Returns the zero Identity when no valid token is present.
func (s *Store) Identity() Identity {
	return DecodeIdentity(s.GetActiveToken())
}

// Admin reports whether the current identity carries an admin role claim.
func (s *Store) Admin() bool {
	return s.Identity().Admin()
}

// SetActive persists a token under the given slot and clears the other
// slot, so there is never ambiguity about which identity is active.
func (s *Store) SetActive(token, slot string) error {
	var other string
	switch slot {
	case SlotUser:
		other = SlotAdmin
	case SlotAdmin:
		other = SlotUser
	default:
		return fmt.Errorf("unknown token slot %q", slot)
	}

	if err := s.storage.Set(slot, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.storage.Delete(other); err != nil {
		return fmt.Errorf("failed to clear %s slot: %w", other, err)
	}
	return nil
}

// Login stores a freshly issued token in the slot matching its role claim.
func (s *Store) Login(token string) error {
	slot := SlotUser
	if DecodeIdentity(token).Admin() {
		slot = SlotAdmin
	}
	return s.SetActive(token, slot)
}

// Clear removes both token slots, resetting the derived identity to empty.
func (s *Store) Clear() error {
	for _, slot := range []string{SlotAdmin, SlotUser} {
		if err := s.storage.Delete(slot); err != nil {
			return fmt.Errorf("failed to clear %s slot: %w", slot, err)
		}
	}
	return nil
}
