package jakbusdk

import "time"

// SignupRequest is the body of POST /v1/auth/signup.
type SignupRequest struct {
	AccountID string `json:"accountId" example:"alice"`
	Password  string `json:"password" example:"hunter22"`
	Name      string `json:"name" example:"Alice"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	AccountID string `json:"accountId" example:"alice"`
	Password  string `json:"password" example:"hunter22"`
}

// KakaoLoginRequest carries the provider authorization code.
type KakaoLoginRequest struct {
	Code string `json:"code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// SessionResponse is returned by every endpoint that signs a user in.
type SessionResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       int64  `json:"userId"`
	Name         string `json:"name"`
}

type CreateTodoRequest struct {
	Title string `json:"title" example:"Buy milk"`
	// Date is YYYY-MM-DD; empty means today.
	Date string `json:"date,omitempty" example:"2026-10-16"`
}

type TodoStatusRequest struct {
	Done bool `json:"done"`
}

type TodoResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Status string `json:"status" enums:"TODO,DONE"`
	Done   bool   `json:"done"`
}

type PushTokenRequest struct {
	FCMToken string `json:"fcmToken"`
}

type NotificationSettingRequest struct {
	IntervalType string `json:"intervalType" enums:"TWO_HOUR,FOUR_HOUR,DAILY"`
	Enabled      bool   `json:"enabled"`
}

type NotificationSettingResponse struct {
	IntervalType   string     `json:"intervalType"`
	Enabled        bool       `json:"enabled"`
	LastNotifiedAt *time.Time `json:"lastNotifiedAt,omitempty"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

// HealthResponse is returned by /livez and /readyz (the latter adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks holds readiness results for critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
