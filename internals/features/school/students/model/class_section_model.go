package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// MODEL — class sections (class + section pair)
// =========================================================

type ClassSection struct {
	ClassSectionID uuid.UUID `gorm:"column:class_section_id;type:uuid;primaryKey" json:"class_section_id"`

	ClassSectionClassName string `gorm:"column:class_section_class_name;type:varchar(50);not null;index:uniq_class_section,unique,priority:1" json:"class_section_class_name"`
	ClassSectionSection   string `gorm:"column:class_section_section;type:varchar(10);not null;index:uniq_class_section,unique,priority:2" json:"class_section_section"`

	ClassSectionCreatedAt time.Time      `gorm:"column:class_section_created_at;not null" json:"class_section_created_at"`
	ClassSectionUpdatedAt time.Time      `gorm:"column:class_section_updated_at;not null" json:"class_section_updated_at"`
	ClassSectionDeletedAt gorm.DeletedAt `gorm:"column:class_section_deleted_at;index" json:"-"`
}

func (ClassSection) TableName() string {
	return "class_sections"
}

// DisplayName is presentation only. All matching across the fee and fine
// engines goes by ClassSectionID, never by this string.
func (cs ClassSection) DisplayName() string {
	if cs.ClassSectionSection == "" {
		return cs.ClassSectionClassName
	}
	return fmt.Sprintf("%s-%s", cs.ClassSectionClassName, cs.ClassSectionSection)
}

func (m *ClassSection) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ClassSectionID == uuid.Nil {
		m.ClassSectionID = uuid.New()
	}
	now := time.Now()
	if m.ClassSectionCreatedAt.IsZero() {
		m.ClassSectionCreatedAt = now
	}
	m.ClassSectionUpdatedAt = now
	return nil
}

func (m *ClassSection) BeforeUpdate(tx *gorm.DB) (err error) {
	m.ClassSectionUpdatedAt = time.Now()
	return nil
}
