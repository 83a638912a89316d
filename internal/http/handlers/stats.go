package handlers

import (
	"net/http"
	"strings"

	"github.com/mike2377/gestion-stage-sub000/internal/app"
	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/http/response"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
	"github.com/mike2377/gestion-stage-sub000/internal/workflow"
)

type StatsHandler struct {
	stats  *app.StatsService
	engine *workflow.Engine
}

func NewStatsHandler(stats *app.StatsService, engine *workflow.Engine) *StatsHandler {
	return &StatsHandler{stats: stats, engine: engine}
}

func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stats.Overview(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, overview)
}

// Trail serves GET /audit/{kind}/{id}: the ordered transition history of
// one entity.
func (h *StatsHandler) Trail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/audit/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		response.Error(w, common.NewError(common.CodeNotFound, "audit trail not found", nil))
		return
	}
	kind, ok := auditKinds[parts[0]]
	if !ok {
		response.Error(w, common.NewValidationError("unknown entity kind", map[string]string{"kind": parts[0]}))
		return
	}
	id, err := common.ParseUUID(parts[1])
	if err != nil {
		response.Error(w, common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"}))
		return
	}
	records, err := h.engine.Trail(r.Context(), kind, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, records)
}

var auditKinds = map[string]store.Kind{
	"stages":       store.KindStage,
	"applications": store.KindApplication,
	"conventions":  store.KindConvention,
	"signatures":   store.KindSignature,
	"tasks":        store.KindTask,
	"evaluations":  store.KindEvaluation,
	"reports":      store.KindReport,
}
