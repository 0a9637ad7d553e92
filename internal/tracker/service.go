// Package tracker implements the candidate tracking operations shared by every front end.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/candidate-tracker/internal/ingestion"
	"github.com/jonathan/candidate-tracker/internal/notify"
	"github.com/jonathan/candidate-tracker/internal/store"
	"github.com/jonathan/candidate-tracker/internal/types"
	"go.uber.org/zap"
)

// Notifier receives one user-facing notice per outcome.
type Notifier interface {
	Notify(level notify.Level, msg string)
}

type discard struct{}

func (discard) Notify(notify.Level, string) {}

// Service runs tracker operations against a candidate store.
// Like the store, it is not safe for concurrent use.
type Service struct {
	store    *store.Store
	importer *ingestion.Importer
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets where notices are posted.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides UUID generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// New creates a Service over st.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		notifier: discard{},
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.importer = ingestion.NewImporter(
		ingestion.WithClock(s.now),
		ingestion.WithIDGenerator(s.newID),
		ingestion.WithLogger(s.logger.Named("ingestion")),
	)
	return s
}

// Create validates the form and adds a new candidate.
func (s *Service) Create(ctx context.Context, req types.CreateCandidateRequest) (types.Candidate, error) {
	req.Trim()
	if err := req.Validate(); err != nil {
		var fe *types.FieldError
		if errors.As(err, &fe) {
			s.notifier.Notify(notify.LevelDanger, fe.Message)
		} else {
			s.notifier.Notify(notify.LevelDanger, err.Error())
		}
		return types.Candidate{}, err
	}

	now := s.now()
	c := types.Candidate{
		ID:           s.newID(),
		LastName:     req.LastName,
		FirstName:    req.FirstName,
		Email:        req.Email,
		Phone:        req.Phone,
		ContractType: ingestion.NormalizeContractType(req.ContractType),
		Objective:    req.Objective,
		CVLink:       req.CVLink,
		StartDate:    req.StartDate,
		CreatedAt:    types.FormatTimestamp(now),
		Status:       types.StatusInProgress,
	}

	if err := s.store.Add(ctx, c); err != nil {
		if errors.Is(err, types.ErrDuplicateEmail) {
			s.notifier.Notify(notify.LevelWarning, "Un candidat avec cet email existe déjà.")
			return types.Candidate{}, err
		}
		s.notifier.Notify(notify.LevelDanger, "Erreur lors de l'enregistrement du candidat.")
		return types.Candidate{}, err
	}

	s.logger.Info("candidate created", zap.String("id", c.ID), zap.String("email", c.Email))
	s.notifier.Notify(notify.LevelSuccess, "Candidat ajouté avec succès !")
	return c, nil
}

// UpdateTracking changes only the tracking fields of a candidate.
func (s *Service) UpdateTracking(ctx context.Context, id string, req types.UpdateTrackingRequest) (types.Candidate, error) {
	updated, err := s.store.Update(ctx, id, req.Apply)
	if err != nil {
		s.notifyStoreError(err)
		return types.Candidate{}, err
	}

	s.logger.Info("tracking updated", zap.String("id", id))
	s.notifier.Notify(notify.LevelSuccess, "Modifications sauvegardées avec succès !")
	return updated, nil
}

// Delete removes a candidate.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.notifyStoreError(err)
		return err
	}

	s.logger.Info("candidate deleted", zap.String("id", id))
	s.notifier.Notify(notify.LevelInfo, "Candidat supprimé avec succès.")
	return nil
}

// Get returns one candidate.
func (s *Service) Get(id string) (types.Candidate, error) {
	return s.store.Get(id)
}

// List returns every candidate in insertion order.
func (s *Service) List() []types.Candidate {
	return s.store.All()
}

// Search returns candidates whose name, email, contract type or status
// contains term, case-insensitively. An empty term matches everyone.
func (s *Service) Search(term string) []types.Candidate {
	needle := strings.ToLower(strings.TrimSpace(term))
	all := s.store.All()
	if needle == "" {
		return all
	}

	matches := make([]types.Candidate, 0, len(all))
	for i := range all {
		if strings.Contains(all[i].SearchText(), needle) {
			matches = append(matches, all[i])
		}
	}
	return matches
}

// Stats counts candidates per status.
func (s *Service) Stats() types.Stats {
	return types.ComputeStats(s.store.All())
}

// Export snapshots the collection into an export envelope.
func (s *Service) Export() types.ExportEnvelope {
	env := types.ExportEnvelope{
		Candidates: s.store.All(),
		ExportDate: types.FormatTimestamp(s.now()),
		Version:    types.ExportVersion,
	}
	s.notifier.Notify(notify.LevelSuccess, "Données exportées avec succès !")
	return env
}

// ExportFileName names an export written today.
func (s *Service) ExportFileName() string {
	return ExportFileName(s.now())
}

// ExportFileName returns "candidats-export-YYYY-MM-DD.json" for the date of t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("candidats-export-%s.json", types.FormatDate(t))
}

func (s *Service) notifyStoreError(err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.notifier.Notify(notify.LevelDanger, "Candidat introuvable.")
		return
	}
	s.notifier.Notify(notify.LevelDanger, "Erreur lors de l'enregistrement des données.")
}
