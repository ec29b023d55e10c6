package domain

import (
	"encoding/json"
	"time"
)

type EntityType string

const (
	EntityStaff EntityType = "staff"
	EntityCourt EntityType = "court"
)

// RecycleEntry is an archived snapshot of a deleted staff record or court.
// Data is a value copy of the document, including its original id.
type RecycleEntry struct {
	ID         string          `gorm:"primaryKey;size:24" json:"id"`
	EntityType EntityType      `gorm:"size:16;not null;index" json:"entityType"`
	EntityID   string          `gorm:"size:24;not null;index" json:"entityId"`
	Data       json.RawMessage `gorm:"not null" json:"data"`
	DeletedBy  *string         `gorm:"size:24" json:"-"`
	DeletedAt  time.Time       `gorm:"not null;index" json:"deletedAt"`
}

func (RecycleEntry) TableName() string { return "recycle_bin" }

// NewRecycleEntry snapshots doc. deletedBy may be empty.
func NewRecycleEntry(t EntityType, entityID string, doc any, deletedBy string, now time.Time) (*RecycleEntry, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	e := &RecycleEntry{EntityType: t, EntityID: entityID, Data: data, DeletedAt: now}
	if deletedBy != "" {
		e.DeletedBy = &deletedBy
	}
	return e, nil
}

// RecycleView is a listing row with the deleting user expanded.
type RecycleView struct {
	RecycleEntry
	DeletedBy *UserRef `json:"deletedBy"`
}
