package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/candidate-tracker/internal/db"
	"github.com/jonathan/candidate-tracker/internal/types"
	"go.uber.org/zap"
)

// Store is the in-memory candidate collection, flushed in full after every write.
// It is not safe for concurrent use; callers serialize access.
type Store struct {
	backend    db.Backend
	logger     *zap.Logger
	candidates []types.Candidate
}

// Open loads the collection from backend. A missing or empty blob yields an empty collection.
func Open(ctx context.Context, backend db.Backend, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	blob, err := backend.Load(ctx)
	if err != nil {
		return nil, &PersistError{Message: "failed to load candidates", Cause: err}
	}

	s := &Store{backend: backend, logger: logger, candidates: []types.Candidate{}}
	if len(bytes.TrimSpace(blob)) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(blob, &s.candidates); err != nil {
		return nil, &PersistError{Message: "stored candidates are corrupt", Cause: err}
	}
	if s.candidates == nil {
		s.candidates = []types.Candidate{}
	}

	logger.Debug("loaded candidates", zap.Int("count", len(s.candidates)))
	return s, nil
}

// All returns a copy of every candidate in insertion order.
func (s *Store) All() []types.Candidate {
	out := make([]types.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Len returns the number of candidates.
func (s *Store) Len() int {
	return len(s.candidates)
}

// Get returns the candidate with the given id.
func (s *Store) Get(id string) (types.Candidate, error) {
	i := s.indexOf(id)
	if i < 0 {
		return types.Candidate{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.candidates[i], nil
}

// FindByEmail returns the candidate whose email matches case-insensitively.
func (s *Store) FindByEmail(email string) (types.Candidate, bool) {
	key := types.EmailKey(email)
	for i := range s.candidates {
		if s.candidates[i].EmailKey() == key {
			return s.candidates[i], true
		}
	}
	return types.Candidate{}, false
}

// Add appends c, rejecting an email that is already present.
func (s *Store) Add(ctx context.Context, c types.Candidate) error {
	if _, taken := s.FindByEmail(c.Email); taken {
		return &ErrEmailAlreadyExists{Email: c.Email}
	}
	return s.mutate(ctx, append(s.All(), c))
}

// Update applies fn to the candidate with the given id. The id cannot be changed.
func (s *Store) Update(ctx context.Context, id string, fn func(*types.Candidate)) (types.Candidate, error) {
	i := s.indexOf(id)
	if i < 0 {
		return types.Candidate{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := s.All()
	fn(&next[i])
	next[i].ID = id

	if err := s.mutate(ctx, next); err != nil {
		return types.Candidate{}, err
	}
	return next[i], nil
}

// Delete removes the candidate with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := make([]types.Candidate, 0, len(s.candidates)-1)
	next = append(next, s.candidates[:i]...)
	next = append(next, s.candidates[i+1:]...)
	return s.mutate(ctx, next)
}

// Append adds records to the end of the collection (merge commit).
func (s *Store) Append(ctx context.Context, records []types.Candidate) error {
	if len(records) == 0 {
		return nil
	}
	return s.mutate(ctx, append(s.All(), records...))
}

// Replace discards the collection and adopts records (replace commit).
func (s *Store) Replace(ctx context.Context, records []types.Candidate) error {
	next := make([]types.Candidate, len(records))
	copy(next, records)
	return s.mutate(ctx, next)
}

func (s *Store) indexOf(id string) int {
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			return i
		}
	}
	return -1
}

// mutate flushes next and adopts it only once the backend accepted it.
func (s *Store) mutate(ctx context.Context, next []types.Candidate) error {
	blob, err := json.Marshal(next)
	if err != nil {
		return &PersistError{Message: "failed to encode candidates", Cause: err}
	}

	if err := s.backend.Save(ctx, blob); err != nil {
		s.logger.Error("failed to flush candidates", zap.Error(err), zap.Int("count", len(next)))
		return &PersistError{Message: "failed to save candidates", Cause: err}
	}

	s.candidates = next
	s.logger.Debug("flushed candidates", zap.Int("count", len(next)))
	return nil
}
