package handlers

import (
	"net/http"
	"strings"

	"github.com/mike2377/gestion-stage-sub000/internal/app"
	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/convention"
	"github.com/mike2377/gestion-stage-sub000/internal/http/response"
	"github.com/mike2377/gestion-stage-sub000/internal/query"
)

type ConventionHandler struct {
	conventions *app.ConventionService
}

func NewConventionHandler(conventions *app.ConventionService) *ConventionHandler {
	return &ConventionHandler{conventions: conventions}
}

func (h *ConventionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.CreateConventionRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.conventions.Create(r.Context(), actor, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ConventionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r.URL.Path, "/conventions/")
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.conventions.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *ConventionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := app.ConventionFilter{
		Status: convention.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
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
	items, err := h.conventions.List(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, offset := pageParams(r)
	response.JSON(w, http.StatusOK, query.Page(items, limit, offset))
}

// Act dispatches the convention sub-actions: submit, sign, decline and
// the direct transitions.
func (h *ConventionHandler) Act(w http.ResponseWriter, r *http.Request, action string) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/conventions/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var view *app.ConventionView
	switch action {
	case "submit":
		view, err = h.conventions.Submit(r.Context(), actor, id)
	case "sign":
		view, err = h.conventions.Sign(r.Context(), actor, id)
	case "decline":
		view, err = h.conventions.Decline(r.Context(), actor, id)
	case "transition":
		var req transitionRequest
		if err := decodeBody(r, &req); err != nil {
			response.Error(w, err)
			return
		}
		view, err = h.conventions.Transition(r.Context(), actor, id, convention.Status(req.From), convention.Status(req.To))
	default:
		response.Error(w, common.NewError(common.CodeNotFound, "unknown action", nil))
		return
	}
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}
