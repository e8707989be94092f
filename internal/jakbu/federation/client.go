// Package federation talks to the OAuth provider: it trades an authorization
// code for a provider access token and reads the user's profile with it.
package federation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jakbu/jakbu/pkg/slogx"
)

const (
	DefaultTimeout    = 5 * time.Second
	DefaultTokenURL   = "https://kauth.kakao.com/oauth/token"
	DefaultProfileURL = "https://kapi.kakao.com/v2/user/me"

	opExchangeCode  = "exchange_code"
	opFetchIdentity = "fetch_identity"

	// maxResponseBytes caps how much of a provider response is read.
	maxResponseBytes = 1 << 20
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	TokenURL     string
	ProfileURL   string
	Timeout      time.Duration
}

type Client struct {
	cfg        Config
	HTTPClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.ProfileURL == "" {
		cfg.ProfileURL = DefaultProfileURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:        cfg,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ExchangeCode trades an authorization code for a provider access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {c.cfg.ClientID},
		"redirect_uri": {c.cfg.RedirectURI},
		"code":         {code},
	}
	if c.cfg.ClientSecret != "" {
		form.Set("client_secret", c.cfg.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &Error{Reason: ReasonNetwork, Op: opExchangeCode, Err: errors.New("failed to create request")}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	req.Header.Set("Accept", "application/json")

	var body tokenResponse
	if err := c.do(req, opExchangeCode, &body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", &Error{Reason: ReasonMalformedResponse, Op: opExchangeCode, Err: errors.New("missing access_token")}
	}
	return body.AccessToken, nil
}

// FetchRemoteIdentity reads the profile behind a provider access token.
func (c *Client) FetchRemoteIdentity(ctx context.Context, accessToken string) (RemoteIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ProfileURL, nil)
	if err != nil {
		return RemoteIdentity{}, &Error{Reason: ReasonNetwork, Op: opFetchIdentity, Err: errors.New("failed to create request")}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	var body userInfoResponse
	if err := c.do(req, opFetchIdentity, &body); err != nil {
		return RemoteIdentity{}, err
	}
	if body.ID == 0 {
		return RemoteIdentity{}, &Error{Reason: ReasonMalformedResponse, Op: opFetchIdentity, Err: errors.New("missing id")}
	}

	return RemoteIdentity{
		SubjectID:       strconv.FormatInt(body.ID, 10),
		DisplayName:     strings.TrimSpace(body.Account.Profile.Nickname),
		Email:           strings.TrimSpace(body.Account.Email),
		ProfileImageURL: body.Account.Profile.ProfileImageURL,
	}, nil
}

// do sends req and decodes a 2xx JSON body into target.
func (c *Client) do(req *http.Request, op string, target any) error {
	l := slogx.FromContext(req.Context())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		l.Warn("provider request failed", "op", op, "error", err)
		return &Error{Reason: ReasonNetwork, Op: op, Err: transportCause(err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Reason: ReasonNetwork, Op: op, Err: transportCause(err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.Warn("provider rejected request", "op", op, "status", resp.StatusCode)
		return &Error{Reason: ReasonUpstreamRejected, Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return &Error{Reason: ReasonMalformedResponse, Op: op, Err: errors.New("invalid JSON body")}
	}
	return nil
}

// transportCause strips the request URL from transport errors so query
// strings never leak into error text.
func transportCause(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			return fmt.Errorf("%s: timeout", ue.Op)
		}
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
