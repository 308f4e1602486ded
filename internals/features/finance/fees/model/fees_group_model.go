package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUMS — fee group classification
// =========================================================

type FeesGroupPeriod string

const (
	FeesGroupPeriodOneTime    FeesGroupPeriod = "One Time"
	FeesGroupPeriodYearly     FeesGroupPeriod = "Yearly"
	FeesGroupPeriodHalfYearly FeesGroupPeriod = "Half Yearly"
	FeesGroupPeriodQuarterly  FeesGroupPeriod = "Quarterly"
	FeesGroupPeriodMonthly    FeesGroupPeriod = "Monthly"
)

type FeesGroupType string

const (
	FeesGroupTypeAdmission   FeesGroupType = "Admission Fees"
	FeesGroupTypeTuition     FeesGroupType = "Tuition Fee"
	FeesGroupTypeTransport   FeesGroupType = "Transport"
	FeesGroupTypeExam        FeesGroupType = "Exam Fees"
	FeesGroupTypeDevelopment FeesGroupType = "Development"
)

type FeesGroupBasis string

const (
	FeesGroupBasisClass    FeesGroupBasis = "Class Based"
	FeesGroupBasisStoppage FeesGroupBasis = "Stoppage Based"
	FeesGroupBasisGeneral  FeesGroupBasis = "General"
)

// =========================================================
// MODEL
// =========================================================

type FeesGroup struct {
	FeesGroupID uuid.UUID `gorm:"column:fees_group_id;type:uuid;primaryKey" json:"fees_group_id"`

	FeesGroupPeriod FeesGroupPeriod `gorm:"column:fees_group_period;type:varchar(20);not null" json:"fees_group_period"`
	FeesGroupType   FeesGroupType   `gorm:"column:fees_group_type;type:varchar(30);not null;index" json:"fees_group_type"`
	FeesGroupBasis  FeesGroupBasis  `gorm:"column:fees_group_basis;type:varchar(20);not null" json:"fees_group_basis"`

	FeesGroupCreatedAt time.Time      `gorm:"column:fees_group_created_at;not null" json:"fees_group_created_at"`
	FeesGroupUpdatedAt time.Time      `gorm:"column:fees_group_updated_at;not null" json:"fees_group_updated_at"`
	FeesGroupDeletedAt gorm.DeletedAt `gorm:"column:fees_group_deleted_at;index" json:"-"`
}

func (FeesGroup) TableName() string {
	return "fees_groups"
}

func (m *FeesGroup) BeforeCreate(tx *gorm.DB) (err error) {
	if m.FeesGroupID == uuid.Nil {
		m.FeesGroupID = uuid.New()
	}
	now := time.Now()
	if m.FeesGroupCreatedAt.IsZero() {
		m.FeesGroupCreatedAt = now
	}
	m.FeesGroupUpdatedAt = now
	return nil
}

func (m *FeesGroup) BeforeUpdate(tx *gorm.DB) (err error) {
	m.FeesGroupUpdatedAt = time.Now()
	return nil
}
