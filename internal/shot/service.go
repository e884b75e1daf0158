package shot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shot-history-api/internal/logging"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("shot not found")
	ErrInvalidShot   = errors.New("invalid shot")
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Repository persists shots.
type Repository interface {
	Upsert(ctx context.Context, s Shot) error
	Get(ctx context.Context, id string) (Shot, error)
	List(ctx context.Context, limit, offset int) ([]Shot, error)
	UpdateNotes(ctx context.Context, id string, notes *Notes) error
	Delete(ctx context.Context, id string) error
}

// Service holds business logic only.
type Service struct {
	Repo Repository

	// Now and NewID are swapped in tests.
	Now   func() time.Time
	NewID func() string
}

// Import normalises and stores a shot recorded by a machine or uploaded by a user.
func (s *Service) Import(ctx context.Context, in Shot) (Shot, error) {
	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" {
		in.ID = s.newID()
	}
	if in.Timestamp == 0 {
		in.Timestamp = s.now().Unix()
	}
	if in.Duration < 0 || in.Volume < 0 {
		return Shot{}, fmt.Errorf("%w: duration and volume must not be negative", ErrInvalidShot)
	}
	if in.Notes != nil {
		if err := validateNotes(in.Notes); err != nil {
			return Shot{}, err
		}
	}
	in.Samples = nonNilSamples(in.Samples)

	if err := s.Repo.Upsert(ctx, in); err != nil {
		logging.FromContext(ctx, "shot").Error().Err(err).Str("shot_id", in.ID).Msg("Failed to store shot")
		return Shot{}, err
	}

	logging.FromContext(ctx, "shot").Info().
		Str("shot_id", in.ID).
		Str("profile", in.Profile).
		Int("samples", len(in.Samples)).
		Bool("incomplete", in.Incomplete).
		Msg("Shot imported")
	return in, nil
}

func (s *Service) Get(ctx context.Context, id string) (Shot, error) {
	return s.Repo.Get(ctx, id)
}

// List returns shots newest first. Out of range limits fall back to sane bounds.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Shot, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, limit, offset)
}

// UpdateNotes replaces the notes of a shot. nil clears them.
func (s *Service) UpdateNotes(ctx context.Context, id string, notes *Notes) (Shot, error) {
	if notes != nil {
		if err := validateNotes(notes); err != nil {
			return Shot{}, err
		}
	}
	if err := s.Repo.UpdateNotes(ctx, id, notes); err != nil {
		return Shot{}, err
	}
	logging.FromContext(ctx, "shot").Info().Str("shot_id", id).Bool("cleared", notes == nil).Msg("Shot notes updated")
	return s.Repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx, "shot").Info().Str("shot_id", id).Msg("Shot deleted")
	return nil
}

func validateNotes(n *Notes) error {
	if n.Rating < 0 || n.Rating > 5 {
		return ErrInvalidRating
	}
	switch n.BalanceTaste {
	case "", "bitter", "balanced", "sour":
		return nil
	default:
		return fmt.Errorf("%w: unknown balance taste %q", ErrInvalidShot, n.BalanceTaste)
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
