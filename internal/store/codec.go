package store

import (
	"encoding/json"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/application"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/convention"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/evaluation"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/stage"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/task"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
)

// The codec maps every kind onto its concrete domain type so backends can
// persist and rehydrate records without the caller repeating type switches.

func IDOf(kind Kind, entity any) (common.UUID, error) {
	switch e := entity.(type) {
	case stage.Stage:
		return e.ID, nil
	case application.Application:
		return e.ID, nil
	case convention.Convention:
		return e.ID, nil
	case task.Task:
		return e.ID, nil
	case evaluation.Evaluation:
		return e.ID, nil
	case evaluation.Report:
		return e.ID, nil
	case user.User:
		return e.ID, nil
	}
	return "", badEntity(kind)
}

func StatusOf(kind Kind, entity any) (string, error) {
	switch e := entity.(type) {
	case stage.Stage:
		return string(e.Status), nil
	case application.Application:
		return string(e.Status), nil
	case convention.Convention:
		return string(e.Status), nil
	case task.Task:
		return string(e.Status), nil
	case evaluation.Evaluation:
		return string(e.Status), nil
	case evaluation.Report:
		return string(e.Status), nil
	case user.User:
		return "", nil
	}
	return "", badEntity(kind)
}

// WithStatus returns a copy of entity with its status replaced.
func WithStatus(kind Kind, entity any, status string) (any, error) {
	switch e := entity.(type) {
	case stage.Stage:
		e.Status = stage.Status(status)
		return e, nil
	case application.Application:
		e.Status = application.Status(status)
		return e, nil
	case convention.Convention:
		e.Status = convention.Status(status)
		return e, nil
	case task.Task:
		e.Status = task.Status(status)
		return e, nil
	case evaluation.Evaluation:
		e.Status = evaluation.Status(status)
		return e, nil
	case evaluation.Report:
		e.Status = evaluation.Status(status)
		return e, nil
	}
	return nil, badEntity(kind)
}

// TagsOf extracts the searchable tag set a backend may index. Only stages
// carry tags (their requirements list).
func TagsOf(entity any) []string {
	if s, ok := entity.(stage.Stage); ok {
		return s.Requirements
	}
	return nil
}

func Encode(entity any) ([]byte, error) {
	payload, err := json.Marshal(entity)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode record", err)
	}
	return payload, nil
}

func Decode(kind Kind, payload []byte) (any, error) {
	var err error
	switch kind {
	case KindStage:
		var e stage.Stage
		if err = json.Unmarshal(payload, &e); err == nil {
			return e, nil
		}
	case KindApplication:
		var e application.Application
		if err = json.Unmarshal(payload, &e); err == nil {
			return e, nil
		}
	case KindConvention:
		var e convention.Convention
		if err = json.Unmarshal(payload, &e); err == nil {
			return e, nil
		}
	case KindTask:
		var e task.Task
		if err = json.Unmarshal(payload, &e); err == nil {
			return e, nil
		}
	case KindEvaluation:
		var e evaluation.Evaluation
		if err = json.Unmarshal(payload, &e); err == nil {
			return e, nil
		}
	case KindReport:
		var e evaluation.Report
		if err = json.Unmarshal(payload, &e); err == nil {
			return e, nil
		}
	case KindUser:
		var e user.User
		if err = json.Unmarshal(payload, &e); err == nil {
			return e, nil
		}
	default:
		return nil, badEntity(kind)
	}
	return nil, common.NewError(common.CodeInternal, "failed to decode "+string(kind)+" record", err)
}

func badEntity(kind Kind) error {
	return common.NewError(common.CodeInternal, "unsupported entity for kind "+string(kind), nil)
}
