package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/store"
	"github.com/jakbu/jakbu/pkg/slogx"
)

const (
	ReminderTitle       = "JakBu 알림"
	reminderBodyPending = "아직 완료하지 않은 할 일이 있어요!"
	reminderBodyDaily   = "오늘의 할 일을 확인해보세요!"
	defaultReminderTick = time.Minute
	defaultDailyHour    = 9
)

// ReminderBody returns the notification text for an interval.
func ReminderBody(iv domain.ReminderInterval) string {
	if iv == domain.IntervalDaily {
		return reminderBodyDaily
	}
	return reminderBodyPending
}

// ReminderService periodically pushes reminders to identities with open
// todos and reopens completed todos once a new day starts.
type ReminderService struct {
	Store     store.Store
	Todos     *TodoService
	Pusher    Pusher
	Logger    *slog.Logger
	Interval  time.Duration
	DailyHour int // local hour after which DAILY reminders go out
	Location  *time.Location
	Now       func() time.Time

	lastResetDay string

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewReminderService(s store.Store, todos *TodoService, pusher Pusher, logger *slog.Logger, interval time.Duration) *ReminderService {
	if interval <= 0 {
		interval = defaultReminderTick
	}
	return &ReminderService{
		Store:     s,
		Todos:     todos,
		Pusher:    pusher,
		Logger:    logger,
		Interval:  interval,
		DailyHour: defaultDailyHour,
		Location:  time.UTC,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start launches the worker. Call Stop to shut it down.
func (s *ReminderService) Start() {
	go s.run()
	s.Logger.Info("reminder service started", "interval", s.Interval)
}

// Stop blocks until an in-progress tick has finished.
func (s *ReminderService) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
	s.Logger.Info("reminder service stopped")
}

func (s *ReminderService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Tick(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Tick(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

func (s *ReminderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ReminderService) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Tick runs one scheduling pass and returns how many reminders were sent.
func (s *ReminderService) Tick(ctx context.Context) int {
	ctx = slogx.WithContext(ctx, s.Logger)
	now := s.now()
	today := domain.Day(now, s.loc())

	if today != s.lastResetDay {
		if _, err := s.Todos.ResetDoneBefore(ctx, today); err != nil {
			s.Logger.Error("failed to reset completed todos", "error", err)
		} else {
			s.lastResetDay = today
		}
	}

	targets, err := s.Store.NotificationSettings().ListEnabledTargets(ctx)
	if err != nil {
		s.Logger.Error("failed to list reminder targets", "error", err)
		return 0
	}

	sent := 0
	for _, t := range targets {
		if !s.due(t.Setting, now, today) {
			continue
		}
		pending, err := s.Store.Todos().HasStatus(ctx, t.Setting.IdentityID, today, domain.TodoStatusTodo)
		if err != nil {
			s.Logger.Error("failed to check pending todos", "identity_id", t.Setting.IdentityID, "error", err)
			continue
		}
		if !pending {
			continue
		}

		msg := PushMessage{To: t.PushAddress, Title: ReminderTitle, Body: ReminderBody(t.Setting.Interval)}
		if err := s.Pusher.Push(ctx, msg); err != nil {
			s.Logger.Warn("push failed", "identity_id", t.Setting.IdentityID, "error", err)
			continue
		}
		if err := s.Store.NotificationSettings().MarkNotified(ctx, t.Setting.ID, now); err != nil {
			s.Logger.Error("failed to stamp reminder", "identity_id", t.Setting.IdentityID, "error", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		s.Logger.Info("reminders sent", "count", sent)
	}
	return sent
}

// due reports whether a setting's interval has elapsed. DAILY fires once
// per calendar day after DailyHour.
func (s *ReminderService) due(setting domain.NotificationSetting, now time.Time, today string) bool {
	last := setting.LastNotifiedAt
	if setting.Interval == domain.IntervalDaily {
		if now.In(s.loc()).Hour() < s.DailyHour {
			return false
		}
		return last == nil || domain.Day(*last, s.loc()) != today
	}
	return last == nil || now.Sub(*last) >= setting.Interval.Period()
}
