package jakbusdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// Session is an authenticated client. A request rejected with
// INVALID_TOKEN is retried once after refreshing the access token.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	userID       int64
	name         string
}

// NewSession wraps tokens obtained elsewhere.
func (c *Client) NewSession(s SessionResponse) *Session {
	return &Session{
		client:       c,
		accessToken:  s.AccessToken,
		refreshToken: s.RefreshToken,
		userID:       s.UserID,
		name:         s.Name,
	}
}

func (s *Session) UserID() int64 { return s.userID }
func (s *Session) Name() string  { return s.name }

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Refresh replaces the access token using the refresh token.
func (s *Session) Refresh(ctx context.Context) error {
	out, err := s.client.Refresh(ctx, s.RefreshToken())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.accessToken = out.AccessToken
	s.refreshToken = out.RefreshToken
	s.mu.Unlock()
	return nil
}

func (s *Session) doAuth(ctx context.Context, method, path string, body any) (*http.Response, error) {
	resp, err := s.client.do(ctx, method, path, s.AccessToken(), body)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	resp.Body.Close()

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.client.do(ctx, method, path, s.AccessToken(), body)
}

func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuth(ctx, http.MethodPost, "/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) DeleteAccount(ctx context.Context) error {
	resp, err := s.doAuth(ctx, http.MethodDelete, "/v1/account", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) CreateTodo(ctx context.Context, title, date string) (*TodoResponse, error) {
	resp, err := s.doAuth(ctx, http.MethodPost, "/v1/todos", CreateTodoRequest{Title: title, Date: date})
	if err != nil {
		return nil, err
	}
	var out TodoResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) TodayTodos(ctx context.Context) ([]TodoResponse, error) {
	return s.listTodos(ctx, "/v1/todos/today")
}

func (s *Session) TodosOn(ctx context.Context, date string) ([]TodoResponse, error) {
	return s.listTodos(ctx, "/v1/todos?date="+url.QueryEscape(date))
}

func (s *Session) listTodos(ctx context.Context, path string) ([]TodoResponse, error) {
	resp, err := s.doAuth(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out []TodoResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) ToggleTodo(ctx context.Context, id int64) (*TodoResponse, error) {
	return s.updateTodo(ctx, fmt.Sprintf("/v1/todos/%d/toggle", id), nil)
}

func (s *Session) SetTodoDone(ctx context.Context, id int64, done bool) (*TodoResponse, error) {
	return s.updateTodo(ctx, fmt.Sprintf("/v1/todos/%d/status", id), TodoStatusRequest{Done: done})
}

func (s *Session) updateTodo(ctx context.Context, path string, body any) (*TodoResponse, error) {
	resp, err := s.doAuth(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	var out TodoResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteTodo(ctx context.Context, id int64) error {
	resp, err := s.doAuth(ctx, http.MethodDelete, fmt.Sprintf("/v1/todos/%d", id), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// SavePushToken registers the device token reminders are sent to.
func (s *Session) SavePushToken(ctx context.Context, token string) error {
	resp, err := s.doAuth(ctx, http.MethodPost, "/v1/notifications/token", PushTokenRequest{FCMToken: token})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) SaveNotificationSetting(ctx context.Context, interval string, enabled bool) (*NotificationSettingResponse, error) {
	resp, err := s.doAuth(ctx, http.MethodPost, "/v1/notifications/setting",
		NotificationSettingRequest{IntervalType: interval, Enabled: enabled})
	if err != nil {
		return nil, err
	}
	var out NotificationSettingResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// NotificationSetting returns ErrNoSetting when none has been saved.
func (s *Session) NotificationSetting(ctx context.Context) (*NotificationSettingResponse, error) {
	resp, err := s.doAuth(ctx, http.MethodGet, "/v1/notifications/setting", nil)
	if err != nil {
		return nil, err
	}
	var out NotificationSettingResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		if IsCode(err, CodeNotFound) {
			return nil, ErrNoSetting
		}
		return nil, err
	}
	return &out, nil
}

var ErrNoSetting = errors.New("jakbu: no notification setting")
