package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// MODEL — fine assignment (fine x student), unique per pair
// =========================================================

type FineStudent struct {
	FineStudentID uuid.UUID `gorm:"column:fine_student_id;type:uuid;primaryKey" json:"fine_student_id"`

	FineStudentFineID uuid.UUID `gorm:"column:fine_student_fine_id;type:uuid;not null;index:uniq_fine_student,unique,priority:1" json:"fine_student_fine_id"`
	FineStudentFine   *Fine     `gorm:"foreignKey:FineStudentFineID;references:FineID" json:"fine_student_fine,omitempty"`

	FineStudentStudentID uuid.UUID `gorm:"column:fine_student_student_id;type:uuid;not null;index:uniq_fine_student,unique,priority:2;index" json:"fine_student_student_id"`

	FineStudentIsPaid      bool       `gorm:"column:fine_student_is_paid;not null;default:false;index" json:"fine_student_is_paid"`
	FineStudentPaymentDate *time.Time `gorm:"column:fine_student_payment_date" json:"fine_student_payment_date,omitempty"`

	FineStudentCreatedAt time.Time      `gorm:"column:fine_student_created_at;not null" json:"fine_student_created_at"`
	FineStudentUpdatedAt time.Time      `gorm:"column:fine_student_updated_at;not null" json:"fine_student_updated_at"`
	FineStudentDeletedAt gorm.DeletedAt `gorm:"column:fine_student_deleted_at;index" json:"-"`
}

func (FineStudent) TableName() string {
	return "fine_students"
}

func (m *FineStudent) BeforeCreate(tx *gorm.DB) (err error) {
	if m.FineStudentID == uuid.Nil {
		m.FineStudentID = uuid.New()
	}
	now := time.Now()
	if m.FineStudentCreatedAt.IsZero() {
		m.FineStudentCreatedAt = now
	}
	m.FineStudentUpdatedAt = now
	return nil
}

func (m *FineStudent) BeforeUpdate(tx *gorm.DB) (err error) {
	m.FineStudentUpdatedAt = time.Now()
	return nil
}
