package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/app"
	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/http/middleware"
	"github.com/mike2377/gestion-stage-sub000/internal/http/response"
	"github.com/mike2377/gestion-stage-sub000/internal/query"
)

type StageHandler struct {
	stages  *app.StageService
	limiter middleware.Limiter
}

func NewStageHandler(stages *app.StageService, limiter middleware.Limiter) *StageHandler {
	return &StageHandler{stages: stages, limiter: limiter}
}

func (h *StageHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.CreateStageRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.stages.Create(r.Context(), actor, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *StageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r.URL.Path, "/stages/")
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.stages.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *StageHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := app.StageFilter{
		Status:  stage.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Program: strings.TrimSpace(r.URL.Query().Get("program")),
	}
	if value := r.URL.Query().Get("year"); value != "" {
		year, err := strconv.Atoi(value)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid year", map[string]string{"year": "must be a number"}))
			return
		}
		filter.Year = year
	}
	if value := r.URL.Query().Get("skills"); value != "" {
		filter.Skills = strings.Split(value, ",")
	}
	for param, target := range map[string]*common.UUID{
		"enterprise_id": &filter.EnterpriseID,
		"student_id":    &filter.StudentID,
		"teacher_id":    &filter.TeacherID,
	} {
		if value := strings.TrimSpace(r.URL.Query().Get(param)); value != "" {
			id, err := common.ParseUUID(value)
			if err != nil {
				response.Error(w, common.NewValidationError("invalid "+param, map[string]string{param: "invalid uuid"}))
				return
			}
			*target = id
		}
	}
	items, err := h.stages.List(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, offset := pageParams(r)
	response.JSON(w, http.StatusOK, query.Page(items, limit, offset))
}

func (h *StageHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/stages/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req transitionRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.stages.Transition(r.Context(), actor, id, stage.Status(req.From), stage.Status(req.To))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type assignStudentRequest struct {
	StudentID string `json:"student_id"`
}

func (h *StageHandler) AssignStudent(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/stages/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req assignStudentRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	studentID, err := common.ParseUUID(req.StudentID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid student_id", map[string]string{"student_id": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "assign:" + id.String()
		if !h.limiter.Allow(key, 10, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "assignment rate limit exceeded", nil))
			return
		}
	}
	updated, err := h.stages.AssignStudent(r.Context(), actor, id, studentID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type assignTutorRequest struct {
	TutorID string `json:"tutor_id"`
}

func (h *StageHandler) AssignTutor(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/stages/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req assignTutorRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	tutorID, err := common.ParseUUID(req.TutorID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid tutor_id", map[string]string{"tutor_id": "invalid uuid"}))
		return
	}
	updated, err := h.stages.AssignTutor(r.Context(), actor, id, tutorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
