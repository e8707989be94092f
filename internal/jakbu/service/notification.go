package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/store"
)

const MaxPushAddressLength = 4096

type NotificationService struct {
	Store store.Store
}

// SaveSetting creates or replaces the identity's reminder preference.
func (s *NotificationService) SaveSetting(ctx context.Context, identityID int64, interval string, enabled bool) (*domain.NotificationSetting, error) {
	iv, err := domain.ParseReminderInterval(strings.TrimSpace(interval))
	if err != nil {
		return nil, invalid("intervalType", err.Error())
	}
	setting := domain.NotificationSetting{
		IdentityID: identityID,
		Interval:   iv,
		Enabled:    enabled,
	}
	if err := s.Store.NotificationSettings().Upsert(ctx, &setting); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save notification setting: %w", err)
	}
	return &setting, nil
}

func (s *NotificationService) GetSetting(ctx context.Context, identityID int64) (*domain.NotificationSetting, error) {
	setting, err := s.Store.NotificationSettings().GetByIdentity(ctx, identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get notification setting: %w", err)
	}
	return &setting, nil
}

// SavePushAddress records the device token reminders are sent to.
func (s *NotificationService) SavePushAddress(ctx context.Context, identityID int64, address string) error {
	address = strings.TrimSpace(address)
	if address == "" || len(address) > MaxPushAddressLength {
		return invalid("fcmToken", "is required")
	}
	if err := s.Store.Identities().SetPushAddress(ctx, identityID, &address); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("save push address: %w", err)
	}
	return nil
}
