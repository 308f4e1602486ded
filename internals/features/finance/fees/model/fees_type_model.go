package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================
// MODEL — concrete fee definitions (amount rows of a group)
// =========================================================

type FeesType struct {
	FeesTypeID uuid.UUID `gorm:"column:fees_type_id;type:uuid;primaryKey" json:"fees_type_id"`

	// FK → fees_groups
	FeesTypeGroupID uuid.UUID  `gorm:"column:fees_type_group_id;type:uuid;not null;index" json:"fees_type_group_id"`
	FeesTypeGroup   *FeesGroup `gorm:"foreignKey:FeesTypeGroupID;references:FeesGroupID" json:"fees_type_group,omitempty"`

	FeesTypeAmount decimal.Decimal `gorm:"column:fees_type_amount;type:numeric(10,2);not null" json:"fees_type_amount"`

	// Free label, e.g. "Jan25", "Quarterly", "Annual"
	FeesTypeAmountType string `gorm:"column:fees_type_amount_type;type:varchar(50);not null" json:"fees_type_amount_type"`

	// Applicability — a NULL class section means the fee applies to every class.
	// Matching is by ID; display names are presentation only.
	FeesTypeClassSectionID *uuid.UUID `gorm:"column:fees_type_class_section_id;type:uuid;index" json:"fees_type_class_section_id"`
	FeesTypeStoppageID     *uuid.UUID `gorm:"column:fees_type_stoppage_id;type:uuid;index" json:"fees_type_stoppage_id"`

	// Arbitrary context captured at definition time (months covered, notes from
	// the fee-structure importer, etc.)
	FeesTypeContext datatypes.JSON `gorm:"column:fees_type_context" json:"fees_type_context,omitempty"`

	FeesTypeCreatedAt time.Time      `gorm:"column:fees_type_created_at;not null" json:"fees_type_created_at"`
	FeesTypeUpdatedAt time.Time      `gorm:"column:fees_type_updated_at;not null" json:"fees_type_updated_at"`
	FeesTypeDeletedAt gorm.DeletedAt `gorm:"column:fees_type_deleted_at;index" json:"-"`
}

func (FeesType) TableName() string {
	return "fees_types"
}

// DisplayName renders "<group type> - <amount type>", the label used on
// receipts and payable listings.
func (ft FeesType) DisplayName() string {
	groupType := "Unknown"
	if ft.FeesTypeGroup != nil {
		groupType = string(ft.FeesTypeGroup.FeesGroupType)
	}
	return fmt.Sprintf("%s - %s", groupType, ft.FeesTypeAmountType)
}

func (m *FeesType) BeforeCreate(tx *gorm.DB) (err error) {
	if m.FeesTypeID == uuid.Nil {
		m.FeesTypeID = uuid.New()
	}
	now := time.Now()
	if m.FeesTypeCreatedAt.IsZero() {
		m.FeesTypeCreatedAt = now
	}
	m.FeesTypeUpdatedAt = now
	return nil
}

func (m *FeesType) BeforeUpdate(tx *gorm.DB) (err error) {
	m.FeesTypeUpdatedAt = time.Now()
	return nil
}
