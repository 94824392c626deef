package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/oshokin/circuit-breaker/internal/domain/breaker"
	"github.com/oshokin/circuit-breaker/internal/logger"
	repo "github.com/oshokin/circuit-breaker/internal/repository/state"
)

// HealthReporter receives the breaker's serving view after every transition
// so infrastructure probes see NOT_SERVING while a pause is in force.
type HealthReporter interface {
	SetServing(serving bool)
}

// noopHealth is used when no health endpoint is configured.
type noopHealth struct{}

func (noopHealth) SetServing(bool) {}

// service is the host component owning the single breaker instance. It
// serializes mutating calls behind a mutex, persists a snapshot after every
// successful transition, and emits the notification payload to the log.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// repo handles persistent storage of the breaker snapshot.
	repo repo.Repository
	// clock is the time source shared with the breaker.
	clock domain.Clock
	// breaker is the pause state machine.
	breaker *domain.Breaker
	// health mirrors the pause state for infrastructure probes.
	health HealthReporter
	// lastActor, lastEvent, and updatedAt describe the last transition.
	lastActor *domain.Actor
	lastEvent domain.EventKind
	updatedAt time.Time
	// mu serializes state-mutating calls against the breaker.
	mu sync.Mutex
}

// newService creates a service backed by the provided repository, restoring
// any persisted state. A missing snapshot yields a fresh unpaused breaker.
func newService(ctx context.Context, repository repo.Repository, clock domain.Clock, health HealthReporter) (*service, error) {
	if health == nil {
		health = noopHealth{}
	}

	s := &service{
		repo:    repository,
		clock:   clock,
		breaker: domain.New(clock),
		health:  health,
	}

	if repository == nil {
		s.health.SetServing(true)

		return s, nil
	}

	snapshot, err := repository.Load(ctx)
	switch {
	case err == nil:
		restored, restoreErr := domain.Restore(clock, snapshot.Word)
		if restoreErr != nil {
			return nil, fmt.Errorf("restore state: %w", restoreErr)
		}

		s.breaker = restored
		s.lastActor = snapshot.LastActor
		s.lastEvent = snapshot.LastEvent
		s.updatedAt = snapshot.UpdatedAt
	case errors.Is(err, repo.ErrNotFound):
		// Keep the fresh unpaused breaker.
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}

	s.health.SetServing(!s.breaker.IsPaused())

	return s, nil
}

// Pause trips the breaker. A nil duration requests an indefinite pause; a
// non-nil one a duration-bound pause. A nil event with a nil error is the
// zero-duration no-op.
func (s *service) Pause(ctx context.Context, actor *domain.Actor, duration *uint64) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transition := s.breaker.Pause
	if duration != nil {
		d := *duration
		transition = func(a *domain.Actor) (*domain.Event, error) {
			return s.breaker.PauseFor(a, d)
		}
	}

	event, err := s.apply(ctx, actor, transition)
	if err != nil {
		return nil, err
	}

	if event == nil {
		logger.InfoKV(ctx, "Zero-duration pause ignored", "actor", actor)
	}

	return event, nil
}

// Unpause lifts the pause. With ifElapsed set it takes the duration-gated
// path that anyone may call once the deadline has matured; otherwise the
// unconditional authorized path.
func (s *service) Unpause(ctx context.Context, actor *domain.Actor, ifElapsed bool) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transition := s.breaker.Unpause
	if ifElapsed {
		transition = s.breaker.UnpauseIfDurationElapsed
	}

	return s.apply(ctx, actor, transition)
}

// Status returns the current breaker view together with the clock reading it
// was taken against.
func (s *service) Status(_ context.Context) (*domain.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now, err := s.clock.Now()
	if err != nil {
		return nil, err
	}

	return &domain.Status{
		Paused:    s.breaker.IsPaused(),
		Deadline:  s.breaker.PauseDeadline(),
		Now:       now,
		ClockMode: domain.ClockMode,
		LastActor: s.lastActor.Clone(),
		LastEvent: s.lastEvent,
		UpdatedAt: s.updatedAt,
	}, nil
}

// apply runs a transition and commits its outcome. If the snapshot cannot be
// persisted the transition is rolled back so a failed call never leaves a
// half-applied state behind. Callers hold the mutex.
func (s *service) apply(ctx context.Context, actor *domain.Actor, transition func(*domain.Actor) (*domain.Event, error)) (*domain.Event, error) {
	prior := s.breaker.State().Word()

	event, err := transition(actor)
	if err != nil {
		return nil, err
	}

	// The zero-duration no-op: nothing happened, nothing to commit.
	if event == nil {
		return nil, nil
	}

	updatedAt := time.Now()

	if s.repo != nil {
		snapshot := &repo.Snapshot{
			Word:      s.breaker.State().Word(),
			LastActor: event.Actor,
			LastEvent: event.Kind,
			UpdatedAt: updatedAt,
		}

		if err := s.repo.Save(ctx, snapshot); err != nil {
			logger.Errorf(ctx, "Failed to persist breaker state: %v", err)

			// The prior word came from the breaker, so it unpacks cleanly.
			if restored, restoreErr := domain.Restore(s.clock, prior); restoreErr == nil {
				s.breaker = restored
			}

			return nil, fmt.Errorf("persist state: %w", err)
		}
	}

	s.lastActor = event.Actor
	s.lastEvent = event.Kind
	s.updatedAt = updatedAt
	s.health.SetServing(!s.breaker.IsPaused())

	logger.InfoKV(ctx, "Breaker state changed",
		"event_id", event.ID,
		"event", event.Kind,
		"actor", event.Actor,
		"at", event.At,
		"duration", event.Duration,
		"deadline", event.Deadline,
	)

	return event, nil
}
