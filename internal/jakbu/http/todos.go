package http

import (
	"net/http"
	"strconv"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/service"
	"github.com/jakbu/jakbu/pkg/httpx"
	"github.com/jakbu/jakbu/pkg/jakbusdk"
)

type TodoHandler struct {
	Todos *service.TodoService
}

func todoResponse(t domain.Todo) jakbusdk.TodoResponse {
	return jakbusdk.TodoResponse{
		ID:     t.ID,
		Title:  t.Title,
		Date:   t.Date,
		Status: string(t.Status),
		Done:   t.Status == domain.TodoStatusDone,
	}
}

func todoList(ts []domain.Todo) []jakbusdk.TodoResponse {
	out := make([]jakbusdk.TodoResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, todoResponse(t))
	}
	return out
}

func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid todo id")
		return 0, false
	}
	return id, true
}

// Create godoc
//
//	@Summary	Create todo
//	@Tags		Todos
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		jakbusdk.CreateTodoRequest	true	"title and optional date"
//	@Success	201		{object}	jakbusdk.TodoResponse
//	@Failure	400		{object}	jakbusdk.ErrorResponse
//	@Router		/v1/todos [post].
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := identityID(w, r)
	if !ok {
		return
	}
	var req jakbusdk.CreateTodoRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	t, err := h.Todos.Create(r.Context(), owner, req.Title, req.Date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, todoResponse(*t))
}

// Today godoc
//
//	@Summary	List today's todos
//	@Tags		Todos
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	jakbusdk.TodoResponse
//	@Router		/v1/todos/today [get].
func (h *TodoHandler) Today(w http.ResponseWriter, r *http.Request) {
	owner, ok := identityID(w, r)
	if !ok {
		return
	}
	ts, err := h.Todos.ListToday(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, todoList(ts))
}

// ByDate godoc
//
//	@Summary	List todos for a day
//	@Tags		Todos
//	@Security	BearerAuth
//	@Produce	json
//	@Param		date	query		string	true	"YYYY-MM-DD"
//	@Success	200		{array}		jakbusdk.TodoResponse
//	@Failure	400		{object}	jakbusdk.ErrorResponse
//	@Router		/v1/todos [get].
func (h *TodoHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	owner, ok := identityID(w, r)
	if !ok {
		return
	}
	ts, err := h.Todos.ListByDate(r.Context(), owner, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, todoList(ts))
}

// Toggle godoc
//
//	@Summary	Toggle todo
//	@Tags		Todos
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"todo id"
//	@Success	200	{object}	jakbusdk.TodoResponse
//	@Failure	404	{object}	jakbusdk.ErrorResponse
//	@Router		/v1/todos/{id}/toggle [post].
func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	owner, ok := identityID(w, r)
	if !ok {
		return
	}
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	t, err := h.Todos.Toggle(r.Context(), owner, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, todoResponse(*t))
}

// SetStatus godoc
//
//	@Summary	Set todo status
//	@Tags		Todos
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int							true	"todo id"
//	@Param		body	body		jakbusdk.TodoStatusRequest	true	"done flag"
//	@Success	200		{object}	jakbusdk.TodoResponse
//	@Failure	404		{object}	jakbusdk.ErrorResponse
//	@Router		/v1/todos/{id}/status [post].
func (h *TodoHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	owner, ok := identityID(w, r)
	if !ok {
		return
	}
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	var req jakbusdk.TodoStatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	t, err := h.Todos.SetDone(r.Context(), owner, id, req.Done)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, todoResponse(*t))
}

// Delete godoc
//
//	@Summary	Delete todo
//	@Tags		Todos
//	@Security	BearerAuth
//	@Param		id	path	int	true	"todo id"
//	@Success	204
//	@Failure	404	{object}	jakbusdk.ErrorResponse
//	@Router		/v1/todos/{id} [delete].
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := identityID(w, r)
	if !ok {
		return
	}
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	if err := h.Todos.Delete(r.Context(), owner, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
