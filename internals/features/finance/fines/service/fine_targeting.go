package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	finesModel "schoolku_backend/internals/features/finance/fines/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

var (
	ErrScopeInput     = errors.New("fine scope input is invalid")
	ErrNotClassScoped = errors.New("this fix only applies to class-scoped fines")
)

// FineService creates fines with scope fan-out and owns the repair tool for
// historically mis-targeted class fines.
type FineService struct {
	DB *gorm.DB
}

func NewFineService(db *gorm.DB) *FineService {
	return &FineService{DB: db}
}

// ApplyFine persists the fine and creates one assignment per targeted
// student, all in one transaction. Targeting happens once, at creation time:
// students moving class later keep their assignments.
func (s *FineService) ApplyFine(ctx context.Context, fine *finesModel.Fine, individualStudentID *uuid.UUID) (int, error) {
	var created int

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(fine).Error; err != nil {
			return err
		}

		var targets []uuid.UUID
		switch fine.FineScope {
		case finesModel.FineScopeIndividual:
			if individualStudentID == nil {
				return fmt.Errorf("%w: individual fine requires a student id", ErrScopeInput)
			}
			targets = []uuid.UUID{*individualStudentID}

		case finesModel.FineScopeClass:
			if fine.FineClassSectionID == nil {
				return fmt.Errorf("%w: class fine requires a class section id", ErrScopeInput)
			}
			if err := tx.Model(&studentModel.Student{}).
				Where("student_class_section_id = ? AND student_status = ?", *fine.FineClassSectionID, studentModel.StudentStatusActive).
				Pluck("student_id", &targets).Error; err != nil {
				return err
			}

		case finesModel.FineScopeAll:
			if err := tx.Model(&studentModel.Student{}).
				Where("student_status = ?", studentModel.StudentStatusActive).
				Pluck("student_id", &targets).Error; err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown fine scope %q", fine.FineScope)
		}

		if len(targets) == 0 {
			return nil
		}

		assignments := make([]finesModel.FineStudent, 0, len(targets))
		for _, sid := range targets {
			assignments = append(assignments, finesModel.FineStudent{
				FineStudentFineID:    fine.FineID,
				FineStudentStudentID: sid,
			})
		}
		if err := tx.Create(&assignments).Error; err != nil {
			return err
		}
		created = len(assignments)
		return nil
	})

	return created, err
}

// =========================================================
// REPAIR TOOL — explicit invocation only
// =========================================================

type FineVerification struct {
	FineID           uuid.UUID      `json:"fine_id"`
	Scope            string         `json:"scope"`
	IntendedClassID  *uuid.UUID     `json:"intended_class_id,omitempty"`
	StudentsAffected int            `json:"students_affected"`
	ClassBreakdown   map[string]int `json:"class_breakdown"`
	IssuesFound      []string       `json:"issues_found"`
	IsCorrect        bool           `json:"is_correct"`
}

// VerifyFineApplication reports how a fine's assignments are distributed
// across classes and flags students currently outside the intended class.
// It is a diagnostic; nothing is mutated.
func (s *FineService) VerifyFineApplication(ctx context.Context, fineID uuid.UUID) (*FineVerification, error) {
	var fine finesModel.Fine
	if err := s.DB.WithContext(ctx).First(&fine, "fine_id = ?", fineID).Error; err != nil {
		return nil, err
	}

	assignments, students, err := s.assignmentsWithStudents(ctx, fineID)
	if err != nil {
		return nil, err
	}

	v := &FineVerification{
		FineID:           fine.FineID,
		Scope:            string(fine.FineScope),
		IntendedClassID:  fine.FineClassSectionID,
		StudentsAffected: len(assignments),
		ClassBreakdown:   map[string]int{},
		IssuesFound:      []string{},
	}

	for _, fs := range assignments {
		student, ok := students[fs.FineStudentStudentID]
		if !ok {
			continue
		}
		label := "No Class"
		if student.StudentClassSection != nil {
			label = student.StudentClassSection.DisplayName()
		}
		v.ClassBreakdown[label]++

		if fine.FineScope == finesModel.FineScopeClass && fine.FineClassSectionID != nil {
			if student.StudentClassSectionID == nil || *student.StudentClassSectionID != *fine.FineClassSectionID {
				v.IssuesFound = append(v.IssuesFound,
					fmt.Sprintf("student %s is in %s, not the intended class", student.StudentAdmissionNumber, label))
			}
		}
	}

	v.IsCorrect = len(v.IssuesFound) == 0
	return v, nil
}

type FineFixResult struct {
	FineID          uuid.UUID `json:"fine_id"`
	StudentsRemoved int       `json:"students_removed"`
	StudentsKept    int       `json:"students_kept"`
}

// FixFineApplication deletes assignments of a class-scoped fine whose student
// is currently in a different class. This repairs historical mis-targeting;
// it deliberately contradicts the "assignments are authoritative" rule, which
// is why it only ever runs on demand.
func (s *FineService) FixFineApplication(ctx context.Context, fineID uuid.UUID) (*FineFixResult, error) {
	var fine finesModel.Fine
	if err := s.DB.WithContext(ctx).First(&fine, "fine_id = ?", fineID).Error; err != nil {
		return nil, err
	}
	if fine.FineScope != finesModel.FineScopeClass || fine.FineClassSectionID == nil {
		return nil, ErrNotClassScoped
	}

	res := &FineFixResult{FineID: fineID}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignments, students, err := s.assignmentsWithStudents(ctx, fineID)
		if err != nil {
			return err
		}
		for _, fs := range assignments {
			student, ok := students[fs.FineStudentStudentID]
			if !ok {
				continue
			}
			if student.StudentClassSectionID != nil && *student.StudentClassSectionID == *fine.FineClassSectionID {
				res.StudentsKept++
				continue
			}
			if err := tx.Delete(&finesModel.FineStudent{}, "fine_student_id = ?", fs.FineStudentID).Error; err != nil {
				return err
			}
			log.Printf("[INFO] fine fix: removed %s from fine %s (moved class)", student.StudentAdmissionNumber, fineID)
			res.StudentsRemoved++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *FineService) assignmentsWithStudents(ctx context.Context, fineID uuid.UUID) ([]finesModel.FineStudent, map[uuid.UUID]studentModel.Student, error) {
	var assignments []finesModel.FineStudent
	if err := s.DB.WithContext(ctx).
		Where("fine_student_fine_id = ?", fineID).
		Find(&assignments).Error; err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, 0, len(assignments))
	for _, fs := range assignments {
		ids = append(ids, fs.FineStudentStudentID)
	}

	students := make(map[uuid.UUID]studentModel.Student, len(ids))
	if len(ids) > 0 {
		var rows []studentModel.Student
		if err := s.DB.WithContext(ctx).
			Preload("StudentClassSection").
			Where("student_id IN ?", ids).
			Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, st := range rows {
			students[st.StudentID] = st
		}
	}
	return assignments, students, nil
}
