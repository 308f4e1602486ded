package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	depositModel "schoolku_backend/internals/features/finance/deposits/model"
	feesModel "schoolku_backend/internals/features/finance/fees/model"
	finesModel "schoolku_backend/internals/features/finance/fines/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

// newTestDB opens a per-test in-memory database with the full schema.
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
		&studentModel.Stoppage{},
		&studentModel.TransportAssignment{},
		&feesModel.FeesGroup{},
		&feesModel.FeesType{},
		&finesModel.FineType{},
		&finesModel.Fine{},
		&finesModel.FineStudent{},
		&depositModel.FeeDeposit{},
	))
	return db
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	w := decimal.RequireFromString(want)
	require.True(t, w.Equal(got), "want %s, got %s", w, got)
}

/* =======================================================================
   SEED HELPERS
======================================================================= */

func seedStudent(t *testing.T, db *gorm.DB, dueAmount string, classSectionID *uuid.UUID) *studentModel.Student {
	t.Helper()
	s := &studentModel.Student{
		StudentAdmissionNumber: "ADM-" + uuid.NewString()[:8],
		StudentName:            "Test Student",
		StudentClassSectionID:  classSectionID,
		StudentDueAmount:       decimal.RequireFromString(dueAmount),
		StudentStatus:          studentModel.StudentStatusActive,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedClassSection(t *testing.T, db *gorm.DB, className, section string) *studentModel.ClassSection {
	t.Helper()
	cs := &studentModel.ClassSection{
		ClassSectionClassName: className,
		ClassSectionSection:   section,
	}
	require.NoError(t, db.Create(cs).Error)
	return cs
}

func seedFeesGroup(t *testing.T, db *gorm.DB, groupType feesModel.FeesGroupType, basis feesModel.FeesGroupBasis) *feesModel.FeesGroup {
	t.Helper()
	g := &feesModel.FeesGroup{
		FeesGroupPeriod: feesModel.FeesGroupPeriodMonthly,
		FeesGroupType:   groupType,
		FeesGroupBasis:  basis,
	}
	require.NoError(t, db.Create(g).Error)
	return g
}

// seedFee sets created-at explicitly so catalog order is deterministic.
func seedFee(t *testing.T, db *gorm.DB, group *feesModel.FeesGroup, amount, label string, classSectionID, stoppageID *uuid.UUID, createdAt time.Time) *feesModel.FeesType {
	t.Helper()
	ft := &feesModel.FeesType{
		FeesTypeGroupID:        group.FeesGroupID,
		FeesTypeAmount:         decimal.RequireFromString(amount),
		FeesTypeAmountType:     label,
		FeesTypeClassSectionID: classSectionID,
		FeesTypeStoppageID:     stoppageID,
		FeesTypeCreatedAt:      createdAt,
	}
	require.NoError(t, db.Create(ft).Error)
	return ft
}

// seedFine creates a fine of the given scope plus one assignment for the
// student, bypassing the fan-out service.
func seedFine(t *testing.T, db *gorm.DB, student *studentModel.Student, amount, typeName string, scope finesModel.FineScope, classSectionID *uuid.UUID, createdAt time.Time) (*finesModel.Fine, *finesModel.FineStudent) {
	t.Helper()
	fineType := &finesModel.FineType{
		FineTypeName:     typeName,
		FineTypeCategory: finesModel.FineCategoryDiscipline,
		FineTypeIsActive: true,
	}
	require.NoError(t, db.Create(fineType).Error)

	fine := &finesModel.Fine{
		FineFineTypeID:     fineType.FineTypeID,
		FineAmount:         decimal.RequireFromString(amount),
		FineReason:         "test fine",
		FineScope:          scope,
		FineClassSectionID: classSectionID,
		FineDueDate:        createdAt,
	}
	require.NoError(t, db.Create(fine).Error)

	fs := &finesModel.FineStudent{
		FineStudentFineID:    fine.FineID,
		FineStudentStudentID: student.StudentID,
		FineStudentCreatedAt: createdAt,
	}
	require.NoError(t, db.Create(fs).Error)
	return fine, fs
}

func seedDeposit(t *testing.T, db *gorm.DB, student *studentModel.Student, category depositModel.DepositCategory, paid, discount string, feesTypeID *uuid.UUID) *depositModel.FeeDeposit {
	t.Helper()
	d := &depositModel.FeeDeposit{
		FeeDepositStudentID:  student.StudentID,
		FeeDepositFeesTypeID: feesTypeID,
		FeeDepositAmount:     decimal.RequireFromString(paid),
		FeeDepositDiscount:   decimal.RequireFromString(discount),
		FeeDepositPaidAmount: decimal.RequireFromString(paid),
		FeeDepositCategory:   category,
		FeeDepositReceiptNo:  NewReceiptNo(),
	}
	require.NoError(t, db.Create(d).Error)
	return d
}

func countDeposits(t *testing.T, db *gorm.DB, studentID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&depositModel.FeeDeposit{}).
		Where("fee_deposit_student_id = ?", studentID).Count(&n).Error)
	return n
}
