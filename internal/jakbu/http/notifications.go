package http

import (
	"net/http"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/service"
	"github.com/jakbu/jakbu/pkg/httpx"
	"github.com/jakbu/jakbu/pkg/jakbusdk"
)

type NotificationHandler struct {
	Notifications *service.NotificationService
}

func settingResponse(s *domain.NotificationSetting) jakbusdk.NotificationSettingResponse {
	return jakbusdk.NotificationSettingResponse{
		IntervalType:   string(s.Interval),
		Enabled:        s.Enabled,
		LastNotifiedAt: s.LastNotifiedAt,
	}
}

// SaveToken godoc
//
//	@Summary	Register push token
//	@Tags		Notifications
//	@Security	BearerAuth
//	@Accept		json
//	@Param		body	body	jakbusdk.PushTokenRequest	true	"device token"
//	@Success	204
//	@Failure	400	{object}	jakbusdk.ErrorResponse
//	@Router		/v1/notifications/token [post].
func (h *NotificationHandler) SaveToken(w http.ResponseWriter, r *http.Request) {
	owner, ok := identityID(w, r)
	if !ok {
		return
	}
	var req jakbusdk.PushTokenRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := h.Notifications.SavePushAddress(r.Context(), owner, req.FCMToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveSetting godoc
//
//	@Summary	Save reminder setting
//	@Tags		Notifications
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		jakbusdk.NotificationSettingRequest	true	"interval and enabled flag"
//	@Success	200		{object}	jakbusdk.NotificationSettingResponse
//	@Failure	400		{object}	jakbusdk.ErrorResponse
//	@Router		/v1/notifications/setting [post].
func (h *NotificationHandler) SaveSetting(w http.ResponseWriter, r *http.Request) {
	owner, ok := identityID(w, r)
	if !ok {
		return
	}
	var req jakbusdk.NotificationSettingRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	s, err := h.Notifications.SaveSetting(r.Context(), owner, req.IntervalType, req.Enabled)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, settingResponse(s))
}

// GetSetting godoc
//
//	@Summary	Get reminder setting
//	@Tags		Notifications
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	jakbusdk.NotificationSettingResponse
//	@Failure	404	{object}	jakbusdk.ErrorResponse	"no setting saved"
//	@Router		/v1/notifications/setting [get].
func (h *NotificationHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	owner, ok := identityID(w, r)
	if !ok {
		return
	}
	s, err := h.Notifications.GetSetting(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, settingResponse(s))
}
