package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/app"
	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/application"
	"github.com/mike2377/gestion-stage-sub000/internal/http/middleware"
	"github.com/mike2377/gestion-stage-sub000/internal/http/response"
	"github.com/mike2377/gestion-stage-sub000/internal/query"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter}
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.ApplyRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "apply:" + req.StageID.String() + ":" + actor.ID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Apply(r.Context(), actor, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/applications/")
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.applications.Get(r.Context(), actor, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	filter := app.ApplicationFilter{
		Status: application.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
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
	items, err := h.applications.List(r.Context(), actor, filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, offset := pageParams(r)
	response.JSON(w, http.StatusOK, query.Page(items, limit, offset))
}

func (h *ApplicationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/applications/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req transitionRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.Transition(r.Context(), actor, id, application.Status(req.From), application.Status(req.To))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
