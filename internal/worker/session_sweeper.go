package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
)

// SessionSweeper reaps expired session rows on an interval. Presenting a
// stale token already removes its own row; the sweeper covers sessions that
// were simply abandoned, so the table does not grow without bound.
type SessionSweeper struct {
	sessionRepo *repository.SessionRepository
	interval    time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSessionSweeper(sessionRepo *repository.SessionRepository, interval time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionSweeper{
		sessionRepo: sessionRepo,
		interval:    interval,
	}
}

func (s *SessionSweeper) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}

	sweeperCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep()
		for {
			select {
			case <-sweeperCtx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *SessionSweeper) sweep() {
	removed, err := s.sessionRepo.DeleteExpired(time.Now())
	if err != nil {
		log.Printf("sweep expired sessions failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("swept %d expired sessions", removed)
	}
}

func (s *SessionSweeper) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
