package http

import (
	"net/http"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/service"
	"github.com/jakbu/jakbu/pkg/httpx"
	"github.com/jakbu/jakbu/pkg/jakbusdk"
)

type AuthHandler struct {
	Sessions *service.SessionService
}

func sessionResponse(s *domain.Session) jakbusdk.SessionResponse {
	return jakbusdk.SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		UserID:       s.IdentityID,
		Name:         s.DisplayName,
	}
}

// Signup godoc
//
//	@Summary		Sign up
//	@Description	Create a local account and sign it in
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		jakbusdk.SignupRequest		true	"account id, password, display name"
//	@Success		201		{object}	jakbusdk.SessionResponse
//	@Failure		400		{object}	jakbusdk.ErrorResponse
//	@Failure		409		{object}	jakbusdk.ErrorResponse	"account id taken"
//	@Router			/v1/auth/signup [post].
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req jakbusdk.SignupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	s, err := h.Sessions.Signup(r.Context(), req.AccountID, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse(s))
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Authenticate with account id and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		jakbusdk.LoginRequest	true	"credentials"
//	@Success		200		{object}	jakbusdk.SessionResponse
//	@Failure		401		{object}	jakbusdk.ErrorResponse	"invalid credentials"
//	@Failure		429		{object}	jakbusdk.ErrorResponse
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req jakbusdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	s, err := h.Sessions.Login(r.Context(), req.AccountID, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(s))
}

// Kakao godoc
//
//	@Summary		Kakao login
//	@Description	Exchange a Kakao authorization code, creating or linking the account as needed
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		jakbusdk.KakaoLoginRequest	true	"authorization code"
//	@Success		200		{object}	jakbusdk.SessionResponse
//	@Failure		401		{object}	jakbusdk.ErrorResponse	"provider rejected the code"
//	@Failure		502		{object}	jakbusdk.ErrorResponse	"malformed provider response"
//	@Failure		503		{object}	jakbusdk.ErrorResponse	"provider unreachable"
//	@Router			/v1/auth/kakao [post].
func (h *AuthHandler) Kakao(w http.ResponseWriter, r *http.Request) {
	var req jakbusdk.KakaoLoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	s, err := h.Sessions.FederatedLogin(r.Context(), req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(s))
}

// Refresh godoc
//
//	@Summary		Refresh access token
//	@Description	Issue a new access token. The refresh token is returned unchanged.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		jakbusdk.RefreshRequest	true	"refresh token"
//	@Success		200		{object}	jakbusdk.SessionResponse
//	@Failure		401		{object}	jakbusdk.ErrorResponse
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req jakbusdk.RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	s, err := h.Sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(s))
}

// Logout godoc
//
//	@Summary	Log out
//	@Tags		Auth
//	@Security	BearerAuth
//	@Success	204
//	@Failure	401	{object}	jakbusdk.ErrorResponse
//	@Router		/v1/auth/logout [post].
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := identityID(w, r)
	if !ok {
		return
	}
	if err := h.Sessions.Logout(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccount godoc
//
//	@Summary		Delete account
//	@Description	Delete the caller's account together with its todos and notification setting
//	@Tags			Account
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	jakbusdk.ErrorResponse
//	@Failure		404	{object}	jakbusdk.ErrorResponse
//	@Router			/v1/account [delete].
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := identityID(w, r)
	if !ok {
		return
	}
	if err := h.Sessions.DeleteAccount(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
