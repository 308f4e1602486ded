package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	finesModel "schoolku_backend/internals/features/finance/fines/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&studentModel.ClassSection{},
		&studentModel.Student{},
		&finesModel.FineType{},
		&finesModel.Fine{},
		&finesModel.FineStudent{},
	))
	return db
}

func seedClass(t *testing.T, db *gorm.DB, name, section string) *studentModel.ClassSection {
	t.Helper()
	cs := &studentModel.ClassSection{ClassSectionClassName: name, ClassSectionSection: section}
	require.NoError(t, db.Create(cs).Error)
	return cs
}

func seedStudentInClass(t *testing.T, db *gorm.DB, admission string, classID *uuid.UUID, status studentModel.StudentStatus) *studentModel.Student {
	t.Helper()
	s := &studentModel.Student{
		StudentAdmissionNumber: admission,
		StudentName:            "Student " + admission,
		StudentClassSectionID:  classID,
		StudentDueAmount:       decimal.Zero,
		StudentStatus:          status,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func newFine(t *testing.T, db *gorm.DB, scope finesModel.FineScope, classID *uuid.UUID) *finesModel.Fine {
	t.Helper()
	ft := &finesModel.FineType{
		FineTypeName:     "Discipline",
		FineTypeCategory: finesModel.FineCategoryDiscipline,
		FineTypeIsActive: true,
	}
	require.NoError(t, db.Create(ft).Error)
	return &finesModel.Fine{
		FineFineTypeID:     ft.FineTypeID,
		FineAmount:         decimal.RequireFromString("50"),
		FineReason:         "test",
		FineScope:          scope,
		FineClassSectionID: classID,
		FineDueDate:        time.Now(),
	}
}

func assignmentCount(t *testing.T, db *gorm.DB, fineID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&finesModel.FineStudent{}).
		Where("fine_student_fine_id = ?", fineID).Count(&n).Error)
	return n
}

func TestApplyFine_ClassScopeTargetsActiveClassmatesOnly(t *testing.T) {
	// GIVEN class 5-A with two active students, one inactive student, and a
	// student in another class
	db := newTestDB(t)
	svc := NewFineService(db)
	classA := seedClass(t, db, "5", "A")
	classB := seedClass(t, db, "5", "B")
	a1 := seedStudentInClass(t, db, "A1", &classA.ClassSectionID, studentModel.StudentStatusActive)
	a2 := seedStudentInClass(t, db, "A2", &classA.ClassSectionID, studentModel.StudentStatusActive)
	seedStudentInClass(t, db, "A3", &classA.ClassSectionID, studentModel.StudentStatusInactive)
	seedStudentInClass(t, db, "B1", &classB.ClassSectionID, studentModel.StudentStatusActive)

	// WHEN a class fine lands on 5-A
	fine := newFine(t, db, finesModel.FineScopeClass, &classA.ClassSectionID)
	created, err := svc.ApplyFine(context.Background(), fine, nil)
	require.NoError(t, err)

	// THEN only the two active 5-A students get assignments
	require.Equal(t, 2, created)
	var assigned []finesModel.FineStudent
	require.NoError(t, db.Where("fine_student_fine_id = ?", fine.FineID).Find(&assigned).Error)
	got := map[uuid.UUID]bool{}
	for _, fs := range assigned {
		got[fs.FineStudentStudentID] = true
	}
	require.True(t, got[a1.StudentID])
	require.True(t, got[a2.StudentID])
}

func TestApplyFine_IndividualRequiresStudent(t *testing.T) {
	db := newTestDB(t)
	svc := NewFineService(db)

	fine := newFine(t, db, finesModel.FineScopeIndividual, nil)
	_, err := svc.ApplyFine(context.Background(), fine, nil)
	require.ErrorIs(t, err, ErrScopeInput)

	// The fine itself must not survive the rollback.
	var n int64
	require.NoError(t, db.Model(&finesModel.Fine{}).Count(&n).Error)
	require.EqualValues(t, 0, n)
}

func TestApplyFine_AllScope(t *testing.T) {
	db := newTestDB(t)
	svc := NewFineService(db)
	seedStudentInClass(t, db, "S1", nil, studentModel.StudentStatusActive)
	seedStudentInClass(t, db, "S2", nil, studentModel.StudentStatusActive)
	seedStudentInClass(t, db, "S3", nil, studentModel.StudentStatusInactive)

	fine := newFine(t, db, finesModel.FineScopeAll, nil)
	created, err := svc.ApplyFine(context.Background(), fine, nil)
	require.NoError(t, err)
	require.Equal(t, 2, created)
}

func TestVerifyFineApplication_FlagsMovedStudents(t *testing.T) {
	// GIVEN a class fine applied to 5-A, after which one student moves to 5-B
	db := newTestDB(t)
	svc := NewFineService(db)
	classA := seedClass(t, db, "5", "A")
	classB := seedClass(t, db, "5", "B")
	seedStudentInClass(t, db, "A1", &classA.ClassSectionID, studentModel.StudentStatusActive)
	mover := seedStudentInClass(t, db, "A2", &classA.ClassSectionID, studentModel.StudentStatusActive)

	fine := newFine(t, db, finesModel.FineScopeClass, &classA.ClassSectionID)
	_, err := svc.ApplyFine(context.Background(), fine, nil)
	require.NoError(t, err)

	report, err := svc.VerifyFineApplication(context.Background(), fine.FineID)
	require.NoError(t, err)
	require.True(t, report.IsCorrect)
	require.Equal(t, 2, report.StudentsAffected)
	require.Equal(t, 2, report.ClassBreakdown["5-A"])

	require.NoError(t, db.Model(mover).
		Update("student_class_section_id", classB.ClassSectionID).Error)

	// WHEN verified again
	report, err = svc.VerifyFineApplication(context.Background(), fine.FineID)
	require.NoError(t, err)

	// THEN the moved student is flagged but nothing is mutated
	require.False(t, report.IsCorrect)
	require.Len(t, report.IssuesFound, 1)
	require.Contains(t, report.IssuesFound[0], "A2")
	require.Equal(t, 1, report.ClassBreakdown["5-A"])
	require.Equal(t, 1, report.ClassBreakdown["5-B"])
	require.EqualValues(t, 2, assignmentCount(t, db, fine.FineID))
}

func TestFixFineApplication_RemovesMovedStudents(t *testing.T) {
	db := newTestDB(t)
	svc := NewFineService(db)
	classA := seedClass(t, db, "5", "A")
	classB := seedClass(t, db, "5", "B")
	stayer := seedStudentInClass(t, db, "A1", &classA.ClassSectionID, studentModel.StudentStatusActive)
	mover := seedStudentInClass(t, db, "A2", &classA.ClassSectionID, studentModel.StudentStatusActive)

	fine := newFine(t, db, finesModel.FineScopeClass, &classA.ClassSectionID)
	_, err := svc.ApplyFine(context.Background(), fine, nil)
	require.NoError(t, err)

	require.NoError(t, db.Model(mover).
		Update("student_class_section_id", classB.ClassSectionID).Error)

	result, err := svc.FixFineApplication(context.Background(), fine.FineID)
	require.NoError(t, err)
	require.Equal(t, 1, result.StudentsRemoved)
	require.Equal(t, 1, result.StudentsKept)

	var remaining []finesModel.FineStudent
	require.NoError(t, db.Where("fine_student_fine_id = ?", fine.FineID).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, stayer.StudentID, remaining[0].FineStudentStudentID)
}

func TestFixFineApplication_RejectsNonClassScope(t *testing.T) {
	db := newTestDB(t)
	svc := NewFineService(db)
	student := seedStudentInClass(t, db, "S1", nil, studentModel.StudentStatusActive)

	fine := newFine(t, db, finesModel.FineScopeIndividual, nil)
	_, err := svc.ApplyFine(context.Background(), fine, &student.StudentID)
	require.NoError(t, err)

	_, err = svc.FixFineApplication(context.Background(), fine.FineID)
	require.ErrorIs(t, err, ErrNotClassScoped)
}
