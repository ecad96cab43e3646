package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

// activity records audit entries and publishes realtime events. Both are
// best effort: failures are logged and never fail the calling operation.
type activity struct {
	audit  port.AuditRepository
	events port.EventPublisher
	logger *zap.Logger
}

func newActivity(audit port.AuditRepository, events port.EventPublisher, logger *zap.Logger) *activity {
	return &activity{audit: audit, events: events, logger: logger}
}

// change describes one mutation of a workflow record.
type change struct {
	entity  domain.EntityType
	id      uuid.UUID
	number  string
	firm    string
	action  domain.AuditAction
	stage   domain.Stage
	details map[string]interface{}
}

func (a *activity) record(ctx context.Context, actor domain.Actor, c change) {
	raw := json.RawMessage("{}")
	if c.details != nil {
		b, err := json.Marshal(c.details)
		if err != nil {
			a.logger.Warn("activity: marshal audit changes", zap.Error(err))
		} else {
			raw = b
		}
	}

	userID := actor.UserID
	entry := &domain.AuditEntry{
		ID:         uuid.New(),
		TenantID:   actor.TenantID,
		EntityType: c.entity,
		EntityID:   c.id,
		Action:     string(c.action),
		Changes:    raw,
		CreatedAt:  time.Now().UTC(),
	}
	if userID != uuid.Nil {
		entry.UserID = &userID
	}
	if err := a.audit.Create(ctx, entry); err != nil {
		a.logger.Warn("activity: audit write failed",
			zap.String("entity", string(c.entity)),
			zap.String("entity_id", c.id.String()),
			zap.String("action", string(c.action)),
			zap.Error(err),
		)
	}

	if a.events != nil {
		a.events.Publish(actor.TenantID, domain.Event{
			Type:     c.entity,
			ID:       c.id,
			Number:   c.number,
			Action:   string(c.action),
			FirmName: c.firm,
			Stage:    c.stage,
		})
	}
}

func indentChange(in *domain.Indent, action domain.AuditAction, stage domain.Stage, details map[string]interface{}) change {
	return change{
		entity:  domain.EntityIndent,
		id:      in.ID,
		number:  in.IndentNumber,
		firm:    in.FirmName,
		action:  action,
		stage:   stage,
		details: details,
	}
}

func liftChange(l *domain.Lift, action domain.AuditAction, stage domain.Stage, details map[string]interface{}) change {
	return change{
		entity:  domain.EntityLift,
		id:      l.ID,
		number:  l.LiftNumber,
		firm:    l.FirmName,
		action:  action,
		stage:   stage,
		details: details,
	}
}

// checkVersion rejects a client supplied version that no longer matches.
// Zero means the client did not send one.
func checkVersion(expected, current int) error {
	if expected != 0 && expected != current {
		return domain.ErrVersionConflict
	}
	return nil
}
