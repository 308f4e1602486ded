package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "schoolku_backend/internals/features/school/students/model"
)

////////////////////////////////////////////////////////////////////////////////
// STUDENT — DTO
////////////////////////////////////////////////////////////////////////////////

type StudentCreateDTO struct {
	StudentAdmissionNumber string          `json:"student_admission_number" validate:"required,max=30"`
	StudentName            string          `json:"student_name" validate:"required,max=120"`
	StudentClassSectionID  *uuid.UUID      `json:"student_class_section_id,omitempty"`
	StudentDueAmount       decimal.Decimal `json:"student_due_amount"`
}

func (d StudentCreateDTO) ToModel() *model.Student {
	return &model.Student{
		StudentAdmissionNumber: d.StudentAdmissionNumber,
		StudentName:            d.StudentName,
		StudentClassSectionID:  d.StudentClassSectionID,
		StudentDueAmount:       d.StudentDueAmount,
		StudentStatus:          model.StudentStatusActive,
	}
}

type StudentAssignClassDTO struct {
	StudentClassSectionID uuid.UUID `json:"student_class_section_id" validate:"required"`
}

type StudentAssignTransportDTO struct {
	StoppageID uuid.UUID `json:"stoppage_id" validate:"required"`
}

////////////////////////////////////////////////////////////////////////////////
// CLASS SECTION / STOPPAGE — DTO
////////////////////////////////////////////////////////////////////////////////

type ClassSectionCreateDTO struct {
	ClassSectionClassName string `json:"class_section_class_name" validate:"required,max=50"`
	ClassSectionSection   string `json:"class_section_section" validate:"required,max=10"`
}

func (d ClassSectionCreateDTO) ToModel() *model.ClassSection {
	return &model.ClassSection{
		ClassSectionClassName: d.ClassSectionClassName,
		ClassSectionSection:   d.ClassSectionSection,
	}
}

type StoppageCreateDTO struct {
	StoppageName string `json:"stoppage_name" validate:"required,max=100"`
}

func (d StoppageCreateDTO) ToModel() *model.Stoppage {
	return &model.Stoppage{StoppageName: d.StoppageName}
}
