package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

type AuditLog struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"index" json:"userId"`
	UserName    string      `gorm:"size:150" json:"userName"`
	EntityType  string      `gorm:"size:50;index" json:"entityType"`
	EntityID    uint        `gorm:"index" json:"entityId"`
	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:500" json:"description"`
	BeforeData  string      `gorm:"type:jsonb;default:'null'" json:"beforeData"`
	AfterData   string      `gorm:"type:jsonb;default:'null'" json:"afterData"`
	CreatedAt   time.Time   `json:"createdAt"`
}
