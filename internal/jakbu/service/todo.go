package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/store"
	"github.com/jakbu/jakbu/pkg/slogx"
)

const MaxTodoTitleLength = 200

// TodoService manages the per-day task list of an identity.
type TodoService struct {
	Store    store.Store
	Location *time.Location // calendar used for "today"; defaults to UTC
	Now      func() time.Time
}

func (s *TodoService) today() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return domain.Day(now(), loc)
}

func (s *TodoService) Create(ctx context.Context, identityID int64, title, date string) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > MaxTodoTitleLength {
		return nil, invalid("title", fmt.Sprintf("must be 1-%d characters", MaxTodoTitleLength))
	}
	if strings.TrimSpace(date) == "" {
		date = s.today()
	}
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, invalid("date", err.Error())
	}

	t := domain.Todo{
		IdentityID: identityID,
		Title:      title,
		Date:       day,
		Status:     domain.TodoStatusTodo,
	}
	if err := s.Store.Todos().Create(ctx, &t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return &t, nil
}

func (s *TodoService) ListByDate(ctx context.Context, identityID int64, date string) ([]domain.Todo, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, invalid("date", err.Error())
	}
	todos, err := s.Store.Todos().ListByIdentityAndDate(ctx, identityID, day)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) ListToday(ctx context.Context, identityID int64) ([]domain.Todo, error) {
	return s.ListByDate(ctx, identityID, s.today())
}

// Toggle flips a todo between TODO and DONE.
func (s *TodoService) Toggle(ctx context.Context, identityID, todoID int64) (*domain.Todo, error) {
	return s.update(ctx, identityID, todoID, func(t domain.Todo) domain.TodoStatus {
		return t.Status.Toggled()
	})
}

func (s *TodoService) SetDone(ctx context.Context, identityID, todoID int64, done bool) (*domain.Todo, error) {
	status := domain.TodoStatusTodo
	if done {
		status = domain.TodoStatusDone
	}
	return s.update(ctx, identityID, todoID, func(domain.Todo) domain.TodoStatus { return status })
}

func (s *TodoService) update(ctx context.Context, identityID, todoID int64, next func(domain.Todo) domain.TodoStatus) (*domain.Todo, error) {
	var out domain.Todo
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		t, err := owned(ctx, tx, identityID, todoID)
		if err != nil {
			return err
		}
		t.Status = next(t)
		if err := tx.Todos().UpdateStatus(ctx, t.ID, t.Status); err != nil {
			return fmt.Errorf("update todo: %w", err)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TodoService) Delete(ctx context.Context, identityID, todoID int64) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := owned(ctx, tx, identityID, todoID); err != nil {
			return err
		}
		if err := tx.Todos().Delete(ctx, todoID); err != nil {
			return fmt.Errorf("delete todo: %w", err)
		}
		return nil
	})
}

// ResetDoneBefore reopens DONE todos dated before day.
func (s *TodoService) ResetDoneBefore(ctx context.Context, day string) (int64, error) {
	day, err := domain.ParseDate(day)
	if err != nil {
		return 0, invalid("date", err.Error())
	}
	n, err := s.Store.Todos().ResetDoneBefore(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("reset todos: %w", err)
	}
	slogx.FromContext(ctx).Info("reset completed todos", "before", day, "count", n)
	return n, nil
}

// owned loads a todo and hides other identities' todos as not found.
func owned(ctx context.Context, s store.Store, identityID, todoID int64) (domain.Todo, error) {
	t, err := s.Todos().GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Todo{}, ErrNotFound
		}
		return domain.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	if t.IdentityID != identityID {
		return domain.Todo{}, ErrNotFound
	}
	return t, nil
}
