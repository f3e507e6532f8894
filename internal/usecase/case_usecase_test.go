package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/entity"
	domainRepo "go-lab-case-tracker/internal/domain/repository"
	"go-lab-case-tracker/internal/repository"
	"go-lab-case-tracker/internal/service"

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

func seedUser(t *testing.T, db *gorm.DB, roleName string, codes ...string) *entity.User {
	t.Helper()

	role := &entity.Role{Name: roleName}
	for _, code := range codes {
		role.Permissions = append(role.Permissions, entity.Permission{Code: code, Name: code})
	}
	require.NoError(t, db.Create(role).Error)

	user := &entity.User{
		RoleID:   role.ID,
		Email:    roleName + "@lab.test",
		Password: "hash",
		FullName: roleName,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	user.Role = *role
	return user
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []service.CaseCompletedNotification
}

func (n *recordingNotifier) CaseCompleted(ctx context.Context, notification service.CaseCompletedNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
	return nil
}

type caseFixture struct {
	db       *gorm.DB
	uc       CaseUsecase
	notifier *recordingNotifier
}

func newCaseFixture(t *testing.T) *caseFixture {
	t.Helper()

	db := newTestDB(t)
	log := testLogger()
	caseRepo := repository.NewCaseRepository()
	notifier := &recordingNotifier{}

	uc := NewCaseUsecase(
		db,
		log,
		caseRepo,
		repository.NewCaseLineRepository(),
		repository.NewUserRepository(),
		service.NewNumberingService(db, log, caseRepo),
		service.NewPermissionService(),
		service.NewAuditService(log, repository.NewAuditRepository()),
		notifier,
	)

	return &caseFixture{db: db, uc: uc, notifier: notifier}
}

func newCreateRequest() *dto.CreateCaseRequest {
	return &dto.CreateCaseRequest{
		StudyType:  string(entity.StudyTypeTissueBiopsy),
		PatientRef: "patient-1",
		IntakeDate: "2025-03-10",
		Lines: []dto.CaseLineRequest{
			{SectionCode: "M", Text: "Single fragment, 2 cm"},
			{SectionCode: "N", Text: "Benign lesion"},
		},
	}
}

func TestCreateCaseAssignsNumberAndStartsPending(t *testing.T) {
	f := newCaseFixture(t)
	tech := seedUser(t, f.db, "technologist", entity.PermCasesCreate)

	c, err := f.uc.CreateCase(context.Background(), tech.ID, newCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "B-25-0001", c.Number)
	assert.Equal(t, string(entity.CaseStatusPending), c.Status)
	assert.False(t, c.IsDraft)
	assert.Nil(t, c.CompletionDate)
	require.Len(t, c.Lines, 2)
	assert.Equal(t, "M", c.Lines[0].SectionCode)

	var count int64
	require.NoError(t, f.db.Model(&entity.CaseLine{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateCaseUrgentIntake(t *testing.T) {
	f := newCaseFixture(t)
	tech := seedUser(t, f.db, "technologist")

	req := newCreateRequest()
	req.Urgent = true

	c, err := f.uc.CreateCase(context.Background(), tech.ID, req)
	require.NoError(t, err)
	assert.Equal(t, string(entity.CaseStatusUrgent), c.Status)
}

func TestCreateCaseDraftUsesReservedScheme(t *testing.T) {
	f := newCaseFixture(t)
	tech := seedUser(t, f.db, "technologist")

	req := newCreateRequest()
	req.IsDraft = true

	c, err := f.uc.CreateCase(context.Background(), tech.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "TEST-B-25-0001", c.Number)
	assert.True(t, c.IsDraft)

	// The real sequence is untouched
	real, err := f.uc.CreateCase(context.Background(), tech.ID, newCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "B-25-0001", real.Number)
}

func TestCreateCaseCompletionDeniedDowngrades(t *testing.T) {
	f := newCaseFixture(t)
	tech := seedUser(t, f.db, "technologist", entity.PermCasesCreate)

	req := newCreateRequest()
	req.MarkCompleted = true

	c, err := f.uc.CreateCase(context.Background(), tech.ID, req)
	require.NoError(t, err)

	assert.Equal(t, string(entity.CaseStatusPending), c.Status)
	assert.Nil(t, c.CompletionDate)
	assert.NotEmpty(t, c.Notice)
	assert.Empty(t, f.notifier.notifications)
}

func TestCreateCaseCompletionAllowed(t *testing.T) {
	f := newCaseFixture(t)
	pathologist := seedUser(t, f.db, "pathologist", entity.PermCasesCreate, entity.PermCasesComplete)

	req := newCreateRequest()
	req.MarkCompleted = true

	c, err := f.uc.CreateCase(context.Background(), pathologist.ID, req)
	require.NoError(t, err)

	assert.Equal(t, string(entity.CaseStatusCompleted), c.Status)
	assert.NotNil(t, c.CompletionDate)
	assert.Empty(t, c.Notice)

	require.Len(t, f.notifier.notifications, 1)
	assert.Equal(t, c.Number, f.notifier.notifications[0].CaseNumber)
	assert.True(t, f.notifier.notifications[0].DocumentationComplete)
}

func TestCompleteCaseRequiresCapability(t *testing.T) {
	f := newCaseFixture(t)
	tech := seedUser(t, f.db, "technologist", entity.PermCasesCreate, entity.PermCasesEdit)
	director := seedUser(t, f.db, entity.RoleLabDirector)

	created, err := f.uc.CreateCase(context.Background(), tech.ID, newCreateRequest())
	require.NoError(t, err)

	_, err = f.uc.CompleteCase(context.Background(), tech.ID, created.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	completed, err := f.uc.CompleteCase(context.Background(), director.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.CaseStatusCompleted), completed.Status)
	assert.NotNil(t, completed.CompletionDate)

	// The transition was audited atomically with the change
	var entries []entity.AuditEntry
	require.NoError(t, f.db.Where("action = ?", entity.AuditActionCaseStatus).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].TargetID)
	assert.Equal(t, director.ID, *entries[0].ActorID)
	assert.Equal(t, string(entity.CaseStatusPending), entries[0].Metadata["from"])
	assert.Equal(t, string(entity.CaseStatusCompleted), entries[0].Metadata["to"])
}

func TestCompletedCaseIsTerminal(t *testing.T) {
	f := newCaseFixture(t)
	director := seedUser(t, f.db, entity.RoleLabDirector)

	created, err := f.uc.CreateCase(context.Background(), director.ID, newCreateRequest())
	require.NoError(t, err)

	_, err = f.uc.CompleteCase(context.Background(), director.ID, created.ID)
	require.NoError(t, err)

	_, err = f.uc.SetStatus(context.Background(), director.ID, created.ID, &dto.SetCaseStatusRequest{Status: string(entity.CaseStatusPending)})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.uc.UpdateCase(context.Background(), director.ID, created.ID, &dto.UpdateCaseRequest{PatientRef: "someone else"})
	assert.ErrorIs(t, err, ErrCaseNotEditable)
}

func TestUpdateCaseReplacesLines(t *testing.T) {
	f := newCaseFixture(t)
	tech := seedUser(t, f.db, "technologist")

	created, err := f.uc.CreateCase(context.Background(), tech.ID, newCreateRequest())
	require.NoError(t, err)

	updated, err := f.uc.UpdateCase(context.Background(), tech.ID, created.ID, &dto.UpdateCaseRequest{
		Lines: []dto.CaseLineRequest{
			{SectionCode: "M", Text: "Two fragments"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, "Two fragments", updated.Lines[0].Text)

	var count int64
	require.NoError(t, f.db.Model(&entity.CaseLine{}).Where("case_id = ?", created.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateCaseUrgencyToggle(t *testing.T) {
	f := newCaseFixture(t)
	tech := seedUser(t, f.db, "technologist")

	created, err := f.uc.CreateCase(context.Background(), tech.ID, newCreateRequest())
	require.NoError(t, err)

	urgent := true
	updated, err := f.uc.UpdateCase(context.Background(), tech.ID, created.ID, &dto.UpdateCaseRequest{Urgent: &urgent})
	require.NoError(t, err)
	assert.Equal(t, string(entity.CaseStatusUrgent), updated.Status)

	// Clearing the flag moves the case forward, not back to intake
	urgent = false
	updated, err = f.uc.UpdateCase(context.Background(), tech.ID, created.ID, &dto.UpdateCaseRequest{Urgent: &urgent})
	require.NoError(t, err)
	assert.Equal(t, string(entity.CaseStatusInProgress), updated.Status)

	var stored entity.Case
	require.NoError(t, f.db.First(&stored, created.ID).Error)
	assert.Equal(t, entity.CaseStatusInProgress, stored.Status)
}

func TestListCasesExcludesDraftsByDefault(t *testing.T) {
	f := newCaseFixture(t)
	tech := seedUser(t, f.db, "technologist")

	_, err := f.uc.CreateCase(context.Background(), tech.ID, newCreateRequest())
	require.NoError(t, err)

	draftReq := newCreateRequest()
	draftReq.IsDraft = true
	_, err = f.uc.CreateCase(context.Background(), tech.ID, draftReq)
	require.NoError(t, err)

	listed, err := f.uc.ListCases(context.Background(), domainRepo.CaseFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, listed.Total)

	withDrafts, err := f.uc.ListCases(context.Background(), domainRepo.CaseFilter{IncludeDrafts: true})
	require.NoError(t, err)
	assert.Equal(t, 2, withDrafts.Total)
}

func TestGetStats(t *testing.T) {
	f := newCaseFixture(t)
	director := seedUser(t, f.db, entity.RoleLabDirector)

	created, err := f.uc.CreateCase(context.Background(), director.ID, newCreateRequest())
	require.NoError(t, err)
	_, err = f.uc.CreateCase(context.Background(), director.ID, newCreateRequest())
	require.NoError(t, err)

	_, err = f.uc.CompleteCase(context.Background(), director.ID, created.ID)
	require.NoError(t, err)

	stats, err := f.uc.GetStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.ByStatus[string(entity.CaseStatusPending)])
	assert.EqualValues(t, 1, stats.ByStatus[string(entity.CaseStatusCompleted)])
	assert.EqualValues(t, 2, stats.ByStudyType[string(entity.StudyTypeTissueBiopsy)])
}
