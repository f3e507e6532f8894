package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/glebarez/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.Permission{},
		&entity.User{},
		&entity.Section{},
		&entity.Line{},
		&entity.Case{},
		&entity.CaseLine{},
		&entity.DocumentDesign{},
		&entity.AuditEntry{},
	))

	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func persistCase(studyType entity.StudyType, draft bool) func(tx *gorm.DB, number string) error {
	return func(tx *gorm.DB, number string) error {
		c := &entity.Case{
			Number:     number,
			StudyType:  studyType,
			Status:     entity.CaseStatusPending,
			IsDraft:    draft,
			PatientRef: "patient",
			IntakeDate: time.Now(),
		}
		return tx.Create(c).Error
	}
}

func TestIssueSequentialNumbers(t *testing.T) {
	db := newTestDB(t)
	svc := NewNumberingService(db, testLogger(), repository.NewCaseRepository())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		number, err := svc.Issue(ctx, entity.StudyTypeTissueBiopsy, 2025, persistCase(entity.StudyTypeTissueBiopsy, false))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("B-25-%04d", i), number)
	}
}

func TestIssueIndependentPerTypeAndYear(t *testing.T) {
	db := newTestDB(t)
	svc := NewNumberingService(db, testLogger(), repository.NewCaseRepository())
	ctx := context.Background()

	biopsy, err := svc.Issue(ctx, entity.StudyTypeTissueBiopsy, 2025, persistCase(entity.StudyTypeTissueBiopsy, false))
	require.NoError(t, err)
	assert.Equal(t, "B-25-0001", biopsy)

	cytology, err := svc.Issue(ctx, entity.StudyTypeGeneralCytology, 2025, persistCase(entity.StudyTypeGeneralCytology, false))
	require.NoError(t, err)
	assert.Equal(t, "C-25-0001", cytology)

	cervical, err := svc.Issue(ctx, entity.StudyTypeCervicalCytology, 2025, persistCase(entity.StudyTypeCervicalCytology, false))
	require.NoError(t, err)
	assert.Equal(t, "P-25-0001", cervical)

	// A different year restarts the sequence for the same type
	lastYear, err := svc.Issue(ctx, entity.StudyTypeTissueBiopsy, 2024, persistCase(entity.StudyTypeTissueBiopsy, false))
	require.NoError(t, err)
	assert.Equal(t, "B-24-0001", lastYear)
}

func TestIssueDraftSequenceIsIsolated(t *testing.T) {
	db := newTestDB(t)
	svc := NewNumberingService(db, testLogger(), repository.NewCaseRepository())
	ctx := context.Background()

	real1, err := svc.Issue(ctx, entity.StudyTypeTissueBiopsy, 2025, persistCase(entity.StudyTypeTissueBiopsy, false))
	require.NoError(t, err)
	assert.Equal(t, "B-25-0001", real1)

	draft, err := svc.IssueDraft(ctx, entity.StudyTypeTissueBiopsy, 2025, persistCase(entity.StudyTypeTissueBiopsy, true))
	require.NoError(t, err)
	assert.Equal(t, "TEST-B-25-0001", draft)

	// The draft issuance must not advance the real sequence
	real2, err := svc.Issue(ctx, entity.StudyTypeTissueBiopsy, 2025, persistCase(entity.StudyTypeTissueBiopsy, false))
	require.NoError(t, err)
	assert.Equal(t, "B-25-0002", real2)
}

func TestIssueRejectsUnknownStudyType(t *testing.T) {
	db := newTestDB(t)
	svc := NewNumberingService(db, testLogger(), repository.NewCaseRepository())

	_, err := svc.Issue(context.Background(), entity.StudyType("RADIOLOGY"), 2025, persistCase("RADIOLOGY", false))
	assert.ErrorIs(t, err, ErrUnknownStudyType)
}

func TestIssuePersistFailureDoesNotBurnNumber(t *testing.T) {
	db := newTestDB(t)
	svc := NewNumberingService(db, testLogger(), repository.NewCaseRepository())
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := svc.Issue(ctx, entity.StudyTypeTissueBiopsy, 2025, func(tx *gorm.DB, number string) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	number, err := svc.Issue(ctx, entity.StudyTypeTissueBiopsy, 2025, persistCase(entity.StudyTypeTissueBiopsy, false))
	require.NoError(t, err)
	assert.Equal(t, "B-25-0001", number)
}

func TestIssueContinuesPastFourDigitSequence(t *testing.T) {
	db := newTestDB(t)
	svc := NewNumberingService(db, testLogger(), repository.NewCaseRepository())
	ctx := context.Background()

	// B-25-9999 sorts above B-25-10000 as a string, so the max read must
	// not be lexicographic once a sequence grows past four digits.
	for _, number := range []string{"B-25-9999", "B-25-10000"} {
		require.NoError(t, db.Create(&entity.Case{
			Number:     number,
			StudyType:  entity.StudyTypeTissueBiopsy,
			Status:     entity.CaseStatusPending,
			PatientRef: "patient",
			IntakeDate: time.Now(),
		}).Error)
	}

	number, err := svc.Issue(ctx, entity.StudyTypeTissueBiopsy, 2025, persistCase(entity.StudyTypeTissueBiopsy, false))
	require.NoError(t, err)
	assert.Equal(t, "B-25-10001", number)
}

func TestIssueConcurrentNoDuplicatesNoGaps(t *testing.T) {
	db := newTestDB(t)
	svc := NewNumberingService(db, testLogger(), repository.NewCaseRepository())
	ctx := context.Background()

	const workers = 20

	var mu sync.Mutex
	numbers := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := svc.Issue(ctx, entity.StudyTypeGeneralCytology, 2025, persistCase(entity.StudyTypeGeneralCytology, false))
			assert.NoError(t, err)
			mu.Lock()
			numbers[number] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, numbers, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, numbers[fmt.Sprintf("C-25-%04d", i)], "missing sequence element %d", i)
	}
}
