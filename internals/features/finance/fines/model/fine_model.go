package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// ENUMS
// =========================================================

type FineCategory string

const (
	FineCategoryLateFee    FineCategory = "Late Fee"
	FineCategoryDamage     FineCategory = "Damage"
	FineCategoryDiscipline FineCategory = "Discipline"
	FineCategoryLibrary    FineCategory = "Library"
	FineCategoryOther      FineCategory = "Other"
)

// FineScope decides which students receive an assignment when the fine is
// created. The assignments are authoritative afterwards: a later class change
// neither adds nor removes them (the repair tool in the service layer exists
// for cleaning up historical mis-targeting, on demand only).
type FineScope string

const (
	FineScopeIndividual FineScope = "Individual"
	FineScopeClass      FineScope = "Class"
	FineScopeAll        FineScope = "All"
)

// =========================================================
// MODELS
// =========================================================

type FineType struct {
	FineTypeID uuid.UUID `gorm:"column:fine_type_id;type:uuid;primaryKey" json:"fine_type_id"`

	FineTypeName     string       `gorm:"column:fine_type_name;type:varchar(100);not null;uniqueIndex" json:"fine_type_name"`
	FineTypeCategory FineCategory `gorm:"column:fine_type_category;type:varchar(20);not null" json:"fine_type_category"`
	FineTypeIsActive bool         `gorm:"column:fine_type_is_active;not null;default:true" json:"fine_type_is_active"`

	FineTypeCreatedAt time.Time      `gorm:"column:fine_type_created_at;not null" json:"fine_type_created_at"`
	FineTypeUpdatedAt time.Time      `gorm:"column:fine_type_updated_at;not null" json:"fine_type_updated_at"`
	FineTypeDeletedAt gorm.DeletedAt `gorm:"column:fine_type_deleted_at;index" json:"-"`
}

func (FineType) TableName() string {
	return "fine_types"
}

func (m *FineType) BeforeCreate(tx *gorm.DB) (err error) {
	if m.FineTypeID == uuid.Nil {
		m.FineTypeID = uuid.New()
	}
	now := time.Now()
	if m.FineTypeCreatedAt.IsZero() {
		m.FineTypeCreatedAt = now
	}
	m.FineTypeUpdatedAt = now
	return nil
}

type Fine struct {
	FineID uuid.UUID `gorm:"column:fine_id;type:uuid;primaryKey" json:"fine_id"`

	FineFineTypeID uuid.UUID `gorm:"column:fine_fine_type_id;type:uuid;not null;index" json:"fine_fine_type_id"`
	FineFineType   *FineType `gorm:"foreignKey:FineFineTypeID;references:FineTypeID" json:"fine_fine_type,omitempty"`

	// Only meaningful for class scope.
	FineClassSectionID *uuid.UUID `gorm:"column:fine_class_section_id;type:uuid;index" json:"fine_class_section_id"`

	FineAmount decimal.Decimal `gorm:"column:fine_amount;type:numeric(10,2);not null" json:"fine_amount"`
	FineReason string          `gorm:"column:fine_reason;type:text;not null" json:"fine_reason"`

	FineScope   FineScope `gorm:"column:fine_scope;type:varchar(20);not null;default:'Individual';index" json:"fine_scope"`
	FineDueDate time.Time `gorm:"column:fine_due_date;not null" json:"fine_due_date"`

	FineCreatedAt time.Time      `gorm:"column:fine_created_at;not null" json:"fine_created_at"`
	FineUpdatedAt time.Time      `gorm:"column:fine_updated_at;not null" json:"fine_updated_at"`
	FineDeletedAt gorm.DeletedAt `gorm:"column:fine_deleted_at;index" json:"-"`
}

func (Fine) TableName() string {
	return "fines"
}

func (m *Fine) BeforeCreate(tx *gorm.DB) (err error) {
	if m.FineID == uuid.Nil {
		m.FineID = uuid.New()
	}
	now := time.Now()
	if m.FineCreatedAt.IsZero() {
		m.FineCreatedAt = now
	}
	m.FineUpdatedAt = now
	return nil
}

func (m *Fine) BeforeUpdate(tx *gorm.DB) (err error) {
	m.FineUpdatedAt = time.Now()
	return nil
}
