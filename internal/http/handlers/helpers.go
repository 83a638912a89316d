package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/http/middleware"
)

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "not authenticated", nil)
}

func actorFromRequest(r *http.Request) (user.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return user.Actor{}, errUnauthorized()
	}
	return actor, nil
}

// pathSegments splits the path after the prefix: "/stages/{id}/sign" with
// prefix "/stages/" yields ["{id}", "sign"].
func pathSegments(path, prefix string) []string {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

func idFromPath(path, prefix string) (common.UUID, error) {
	segments := pathSegments(path, prefix)
	if len(segments) == 0 {
		return "", common.NewValidationError("missing id", map[string]string{"id": "is required"})
	}
	return common.ParseUUID(segments[0])
}

func decodeBody(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return common.NewValidationError("invalid request body", map[string]string{"body": "malformed json"})
	}
	return nil
}

func pageParams(r *http.Request) (limit, offset int) {
	limit = 20
	if value := r.URL.Query().Get("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			limit = parsed
		}
	}
	if value := r.URL.Query().Get("offset"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			offset = parsed
		}
	}
	return limit, offset
}

type transitionRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}
