package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/events"
	"github.com/foodbridge-api/internal/repository"
)

// donationsExpiredPayload is published with donations.expired
type donationsExpiredPayload struct {
	Count  int       `json:"count"`
	Cutoff time.Time `json:"cutoff"`
}

// expiryService is the concrete implementation of ExpiryService
type expiryService struct {
	repo      repository.DonationRepository
	publisher events.Publisher
	interval  time.Duration
	log       zerolog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	running   bool
	stopped   bool
	mu        sync.Mutex
	now       func() time.Time
}

func newExpiryService(repo repository.DonationRepository, publisher events.Publisher, interval time.Duration, log zerolog.Logger) *expiryService {
	return &expiryService{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		log:       log.With().Str("service", "expiry").Logger(),
		now:       time.Now,
	}
}

// StartProcessor sweeps on every tick until ctx is done or StopProcessor is
// called. It blocks; a zero interval returns immediately.
func (s *expiryService) StartProcessor(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info().Msg("Expiry sweeper disabled")
		return
	}

	s.mu.Lock()
	if s.running || s.stopped {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	runCtx, done := s.ctx, s.done
	s.mu.Unlock()

	defer close(done)

	s.log.Info().Dur("interval", s.interval).Msg("Expiry sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-runCtx.Done():
			s.log.Info().Msg("Expiry sweeper stopping")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(runCtx); err != nil && runCtx.Err() == nil {
				s.log.Error().Err(err).Msg("Expiry sweep failed")
			}
		}
	}
}

// StopProcessor stops the sweeper and waits for the loop to exit. A
// processor started after this call returns without sweeping.
func (s *expiryService) StopProcessor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if !s.running {
		return
	}

	s.cancel()
	<-s.done
	s.running = false
	s.log.Info().Msg("Expiry sweeper stopped")
}

// SweepOnce marks available donations past their expiry date as expired
func (s *expiryService) SweepOnce(ctx context.Context) (int, error) {
	cutoff := s.now()
	n, err := s.repo.ExpireBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		s.log.Info().Int("count", n).Msg("Donations expired")
		publish(ctx, s.publisher, s.log, events.TypeDonationsExpired, donationsExpiredPayload{Count: n, Cutoff: cutoff})
	}
	return n, nil
}
