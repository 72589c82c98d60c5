package bot

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

// UserLister enumerates the users known to the preference store.
type UserLister interface {
	ListUserIDs() []string
}

// TipScheduler broadcasts one random beauty tip to every known user once a
// day at a fixed wall-clock time.
type TipScheduler struct {
	users   UserLister
	sender  Sender
	tips    []string
	hour    int
	minute  int
	now     func() time.Time
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	logger  *slog.Logger
}

// SchedulerConfig holds configuration for the tip scheduler.
type SchedulerConfig struct {
	Hour   int      // Wall-clock hour of the daily broadcast
	Minute int      // Wall-clock minute of the daily broadcast
	Tips   []string // Tip list to draw from; defaults to BeautyTips
}

// NewTipScheduler creates a new tip scheduler.
func NewTipScheduler(users UserLister, sender Sender, config SchedulerConfig) *TipScheduler {
	tips := config.Tips
	if len(tips) == 0 {
		tips = BeautyTips
	}

	return &TipScheduler{
		users:  users,
		sender: sender,
		tips:   tips,
		hour:   config.Hour,
		minute: config.Minute,
		now:    time.Now,
		stopCh: make(chan struct{}),
		logger: slog.Default(),
	}
}

// Start begins the scheduler loop.
func (s *TipScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("tip scheduler started", "hour", s.hour, "minute", s.minute)
	return nil
}

// Stop gracefully stops the scheduler.
func (s *TipScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("tip scheduler stopped")
}

// IsRunning returns whether the scheduler is running.
func (s *TipScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *TipScheduler) run(ctx context.Context) {
	defer s.wg.Done()
	for {
		timer := time.NewTimer(time.Until(s.nextFiring(s.now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			s.Dispatch(ctx)
		}
	}
}

// nextFiring returns the next wall-clock HH:MM strictly after now, so the
// trigger fires at most once per calendar day.
func (s *TipScheduler) nextFiring(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Dispatch sends one independently chosen random tip to every currently
// known user. A failure for one recipient never aborts the rest of the
// batch.
func (s *TipScheduler) Dispatch(ctx context.Context) {
	userIDs := s.users.ListUserIDs()

	sent := 0
	for _, userID := range userIDs {
		tip := s.tips[rand.Intn(len(s.tips))]
		if err := s.sender.SendMessage(ctx, userID, tip); err != nil {
			s.logger.Error("failed to send tip", "user", userID, "error", err)
			continue
		}
		sent++
	}
	s.logger.Info("tip broadcast finished", "recipients", len(userIDs), "sent", sent)
}
