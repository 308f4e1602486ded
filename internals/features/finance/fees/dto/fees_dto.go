package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	model "schoolku_backend/internals/features/finance/fees/model"
)

////////////////////////////////////////////////////////////////////////////////
// FEES GROUP — DTO
////////////////////////////////////////////////////////////////////////////////

type FeesGroupCreateDTO struct {
	FeesGroupPeriod string `json:"fees_group_period" validate:"required,oneof='One Time' 'Yearly' 'Half Yearly' 'Quarterly' 'Monthly'"`
	FeesGroupType   string `json:"fees_group_type" validate:"required,oneof='Admission Fees' 'Tuition Fee' 'Transport' 'Exam Fees' 'Development'"`
	FeesGroupBasis  string `json:"fees_group_basis" validate:"required,oneof='Class Based' 'Stoppage Based' 'General'"`
}

func (d FeesGroupCreateDTO) ToModel() *model.FeesGroup {
	return &model.FeesGroup{
		FeesGroupPeriod: model.FeesGroupPeriod(d.FeesGroupPeriod),
		FeesGroupType:   model.FeesGroupType(d.FeesGroupType),
		FeesGroupBasis:  model.FeesGroupBasis(d.FeesGroupBasis),
	}
}

////////////////////////////////////////////////////////////////////////////////
// FEES TYPE — DTO
////////////////////////////////////////////////////////////////////////////////

type FeesTypeCreateDTO struct {
	FeesTypeGroupID        uuid.UUID       `json:"fees_type_group_id" validate:"required"`
	FeesTypeAmount         decimal.Decimal `json:"fees_type_amount" validate:"required"`
	FeesTypeAmountType     string          `json:"fees_type_amount_type" validate:"required,max=50"`
	FeesTypeClassSectionID *uuid.UUID      `json:"fees_type_class_section_id,omitempty"`
	FeesTypeStoppageID     *uuid.UUID      `json:"fees_type_stoppage_id,omitempty"`
	FeesTypeContext        datatypes.JSON  `json:"fees_type_context,omitempty"`
}

func (d FeesTypeCreateDTO) ToModel() *model.FeesType {
	return &model.FeesType{
		FeesTypeGroupID:        d.FeesTypeGroupID,
		FeesTypeAmount:         d.FeesTypeAmount,
		FeesTypeAmountType:     d.FeesTypeAmountType,
		FeesTypeClassSectionID: d.FeesTypeClassSectionID,
		FeesTypeStoppageID:     d.FeesTypeStoppageID,
		FeesTypeContext:        d.FeesTypeContext,
	}
}
