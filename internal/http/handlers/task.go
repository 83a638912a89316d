package handlers

import (
	"net/http"
	"strings"

	"github.com/mike2377/gestion-stage-sub000/internal/app"
	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/task"
	"github.com/mike2377/gestion-stage-sub000/internal/http/response"
	"github.com/mike2377/gestion-stage-sub000/internal/query"
)

type TaskHandler struct {
	tasks *app.TaskService
}

func NewTaskHandler(tasks *app.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.CreateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.tasks.Create(r.Context(), actor, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/tasks/")
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.tasks.Get(r.Context(), actor, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	filter := app.TaskFilter{
		Status:   task.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Priority: task.Priority(strings.TrimSpace(r.URL.Query().Get("priority"))),
		Overdue:  r.URL.Query().Get("overdue") == "true",
	}
	if value := strings.TrimSpace(r.URL.Query().Get("stage_id")); value != "" {
		id, err := common.ParseUUID(value)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid stage_id", map[string]string{"stage_id": "invalid uuid"}))
			return
		}
		filter.StageID = id
	}
	if value := strings.TrimSpace(r.URL.Query().Get("student_id")); value != "" {
		id, err := common.ParseUUID(value)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid student_id", map[string]string{"student_id": "invalid uuid"}))
			return
		}
		filter.StudentID = id
	}
	items, err := h.tasks.List(r.Context(), actor, filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, offset := pageParams(r)
	response.JSON(w, http.StatusOK, query.Page(items, limit, offset))
}

func (h *TaskHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/tasks/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req transitionRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.tasks.Transition(r.Context(), actor, id, task.Status(req.From), task.Status(req.To))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type progressRequest struct {
	Progress    int     `json:"progress"`
	ActualHours float64 `json:"actual_hours"`
}

func (h *TaskHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/tasks/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req progressRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.tasks.UpdateProgress(r.Context(), actor, id, req.Progress, req.ActualHours)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type commentRequest struct {
	Body string `json:"body"`
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/tasks/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.tasks.AddComment(r.Context(), actor, id, strings.TrimSpace(req.Body))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, updated)
}
