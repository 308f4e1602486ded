package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — student status (soft state, students are never hard-deleted
// while financial records reference them)
// =========================================================

type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
)

// =========================================================
// MODEL
// =========================================================

type Student struct {
	// PK
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`

	StudentAdmissionNumber string `gorm:"column:student_admission_number;type:varchar(30);not null;uniqueIndex" json:"student_admission_number"`
	StudentName            string `gorm:"column:student_name;type:varchar(120);not null" json:"student_name"`

	// FK → class_sections (nullable: unassigned students exist)
	StudentClassSectionID *uuid.UUID    `gorm:"column:student_class_section_id;type:uuid;index" json:"student_class_section_id"`
	StudentClassSection   *ClassSection `gorm:"foreignKey:StudentClassSectionID;references:ClassSectionID" json:"student_class_section,omitempty"`

	// Carry-forward snapshot from the previous period (set at rollover,
	// reduced logically through the deposit ledger, never mutated in place).
	StudentDueAmount decimal.Decimal `gorm:"column:student_due_amount;type:numeric(10,2);not null" json:"student_due_amount"`

	StudentStatus StudentStatus `gorm:"column:student_status;type:varchar(20);not null;default:'active';index" json:"student_status"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;not null" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;not null" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (Student) TableName() string {
	return "students"
}

func (m *Student) BeforeCreate(tx *gorm.DB) (err error) {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	now := time.Now()
	if m.StudentCreatedAt.IsZero() {
		m.StudentCreatedAt = now
	}
	m.StudentUpdatedAt = now
	return nil
}

func (m *Student) BeforeUpdate(tx *gorm.DB) (err error) {
	m.StudentUpdatedAt = time.Now()
	return nil
}
