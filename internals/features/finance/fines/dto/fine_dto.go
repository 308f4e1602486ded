package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "schoolku_backend/internals/features/finance/fines/model"
)

////////////////////////////////////////////////////////////////////////////////
// FINE TYPE — DTO
////////////////////////////////////////////////////////////////////////////////

type FineTypeCreateDTO struct {
	FineTypeName     string `json:"fine_type_name" validate:"required,max=100"`
	FineTypeCategory string `json:"fine_type_category" validate:"required,oneof='Late Fee' 'Damage' 'Discipline' 'Library' 'Other'"`
}

func (d FineTypeCreateDTO) ToModel() *model.FineType {
	return &model.FineType{
		FineTypeName:     d.FineTypeName,
		FineTypeCategory: model.FineCategory(d.FineTypeCategory),
		FineTypeIsActive: true,
	}
}

////////////////////////////////////////////////////////////////////////////////
// FINE — DTO
////////////////////////////////////////////////////////////////////////////////

type FineCreateDTO struct {
	FineFineTypeID     uuid.UUID       `json:"fine_fine_type_id" validate:"required"`
	FineAmount         decimal.Decimal `json:"fine_amount" validate:"required"`
	FineReason         string          `json:"fine_reason" validate:"required"`
	FineScope          string          `json:"fine_scope" validate:"required,oneof=Individual Class All"`
	FineDueDate        time.Time       `json:"fine_due_date" validate:"required"`
	FineClassSectionID *uuid.UUID      `json:"fine_class_section_id,omitempty"`

	// Required when scope is Individual.
	FineStudentID *uuid.UUID `json:"fine_student_id,omitempty"`
}

func (d FineCreateDTO) ToModel() *model.Fine {
	return &model.Fine{
		FineFineTypeID:     d.FineFineTypeID,
		FineAmount:         d.FineAmount,
		FineReason:         d.FineReason,
		FineScope:          model.FineScope(d.FineScope),
		FineDueDate:        d.FineDueDate,
		FineClassSectionID: d.FineClassSectionID,
	}
}
