package handlers

import (
	"net/http"
	"strings"

	"github.com/mike2377/gestion-stage-sub000/internal/app"
	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/evaluation"
	"github.com/mike2377/gestion-stage-sub000/internal/http/response"
	"github.com/mike2377/gestion-stage-sub000/internal/query"
)

type EvaluationHandler struct {
	evaluations *app.EvaluationService
}

func NewEvaluationHandler(evaluations *app.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations}
}

func (h *EvaluationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.CreateEvaluationRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.evaluations.CreateEvaluation(r.Context(), actor, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *EvaluationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/evaluations/")
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.evaluations.GetEvaluation(r.Context(), actor, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *EvaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	stageID, err := optionalID(r, "stage_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.evaluations.ListEvaluations(r.Context(), actor, stageID)
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, offset := pageParams(r)
	response.JSON(w, http.StatusOK, query.Page(items, limit, offset))
}

func (h *EvaluationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/evaluations/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req transitionRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.evaluations.TransitionEvaluation(r.Context(), actor, id, evaluation.Status(req.From), evaluation.Status(req.To))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type gradeRequest struct {
	Grade    float64 `json:"grade"`
	Comments string  `json:"comments"`
}

func (h *EvaluationHandler) Grade(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/evaluations/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req gradeRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.evaluations.GradeEvaluation(r.Context(), actor, id, req.Grade, req.Comments)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type ReportHandler struct {
	evaluations *app.EvaluationService
}

func NewReportHandler(evaluations *app.EvaluationService) *ReportHandler {
	return &ReportHandler{evaluations: evaluations}
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.CreateReportRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.evaluations.CreateReport(r.Context(), actor, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/reports/")
	if err != nil {
		response.Error(w, err)
		return
	}
	found, err := h.evaluations.GetReport(r.Context(), actor, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, found)
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	stageID, err := optionalID(r, "stage_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.evaluations.ListReports(r.Context(), actor, stageID)
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, offset := pageParams(r)
	response.JSON(w, http.StatusOK, query.Page(items, limit, offset))
}

func (h *ReportHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/reports/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req transitionRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.evaluations.TransitionReport(r.Context(), actor, id, evaluation.Status(req.From), evaluation.Status(req.To))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type reportGradeRequest struct {
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback"`
}

func (h *ReportHandler) Grade(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r.URL.Path, "/reports/")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req reportGradeRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.evaluations.GradeReport(r.Context(), actor, id, req.Grade, req.Feedback)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func optionalID(r *http.Request, name string) (common.UUID, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return "", nil
	}
	id, err := common.ParseUUID(value)
	if err != nil {
		return "", common.NewValidationError("invalid "+name, map[string]string{name: "invalid uuid"})
	}
	return id, nil
}
