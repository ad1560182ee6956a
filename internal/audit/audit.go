// Package audit registra quién cambió qué, con el estado anterior y
// posterior de la entidad en JSON.
package audit

import (
	"context"
	"encoding/json"

	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

type Recorder struct {
	repo repository.AuditRepository
}

func NewRecorder(repo repository.AuditRepository) *Recorder {
	return &Recorder{repo: repo}
}

// WriteLog guarda la entrada de auditoría. Un fallo acá no debe voltear la
// operación que se está auditando: se loguea y se sigue.
func (r *Recorder) WriteLog(ctx context.Context, opts LogOptions) {
	if r == nil || r.repo == nil {
		return
	}

	// jsonb no acepta string vacío, el default es el JSON "null".
	beforeStr := "null"
	afterStr := "null"
	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := &models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("entity_type", opts.EntityType).
			Uint("entity_id", opts.EntityID).
			Msg("no se pudo guardar el log de auditoría")
	}
}
