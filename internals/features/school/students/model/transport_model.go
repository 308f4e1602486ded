package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// MODEL — transport stoppages & per-student assignments
// =========================================================

type Stoppage struct {
	StoppageID   uuid.UUID `gorm:"column:stoppage_id;type:uuid;primaryKey" json:"stoppage_id"`
	StoppageName string    `gorm:"column:stoppage_name;type:varchar(100);not null;uniqueIndex" json:"stoppage_name"`

	StoppageCreatedAt time.Time      `gorm:"column:stoppage_created_at;not null" json:"stoppage_created_at"`
	StoppageUpdatedAt time.Time      `gorm:"column:stoppage_updated_at;not null" json:"stoppage_updated_at"`
	StoppageDeletedAt gorm.DeletedAt `gorm:"column:stoppage_deleted_at;index" json:"-"`
}

func (Stoppage) TableName() string {
	return "stoppages"
}

func (m *Stoppage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.StoppageID == uuid.Nil {
		m.StoppageID = uuid.New()
	}
	now := time.Now()
	if m.StoppageCreatedAt.IsZero() {
		m.StoppageCreatedAt = now
	}
	m.StoppageUpdatedAt = now
	return nil
}

// One assignment per student at most.
type TransportAssignment struct {
	TransportAssignmentID uuid.UUID `gorm:"column:transport_assignment_id;type:uuid;primaryKey" json:"transport_assignment_id"`

	TransportAssignmentStudentID uuid.UUID `gorm:"column:transport_assignment_student_id;type:uuid;not null;uniqueIndex" json:"transport_assignment_student_id"`
	TransportAssignmentStoppageID uuid.UUID `gorm:"column:transport_assignment_stoppage_id;type:uuid;not null;index" json:"transport_assignment_stoppage_id"`

	TransportAssignmentStoppage *Stoppage `gorm:"foreignKey:TransportAssignmentStoppageID;references:StoppageID" json:"transport_assignment_stoppage,omitempty"`

	TransportAssignmentCreatedAt time.Time      `gorm:"column:transport_assignment_created_at;not null" json:"transport_assignment_created_at"`
	TransportAssignmentUpdatedAt time.Time      `gorm:"column:transport_assignment_updated_at;not null" json:"transport_assignment_updated_at"`
	TransportAssignmentDeletedAt gorm.DeletedAt `gorm:"column:transport_assignment_deleted_at;index" json:"-"`
}

func (TransportAssignment) TableName() string {
	return "transport_assignments"
}

func (m *TransportAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	if m.TransportAssignmentID == uuid.Nil {
		m.TransportAssignmentID = uuid.New()
	}
	now := time.Now()
	if m.TransportAssignmentCreatedAt.IsZero() {
		m.TransportAssignmentCreatedAt = now
	}
	m.TransportAssignmentUpdatedAt = now
	return nil
}
