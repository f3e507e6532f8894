package usecase

import (
	"context"
	"testing"

	"go-lab-case-tracker/internal/delivery/dto"
	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/repository"
	"go-lab-case-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type designFixture struct {
	db *gorm.DB
	uc DesignUsecase
}

func newDesignFixture(t *testing.T) *designFixture {
	t.Helper()

	db := newTestDB(t)
	log := testLogger()

	uc := NewDesignUsecase(
		db,
		log,
		repository.NewDesignRepository(),
		service.NewAuditService(log, repository.NewAuditRepository()),
	)

	return &designFixture{db: db, uc: uc}
}

func TestCreateDesignStoresOverridesOnly(t *testing.T) {
	f := newDesignFixture(t)
	admin := seedUser(t, f.db, entity.RoleAdministrator)

	created, err := f.uc.CreateDesign(context.Background(), admin.ID, &dto.CreateDesignRequest{
		Name:      "Compact biopsy layout",
		StudyType: string(entity.StudyTypeTissueBiopsy),
		Config:    map[string]interface{}{"margins": map[string]interface{}{"top": 35}},
	})
	require.NoError(t, err)

	var stored entity.DocumentDesign
	require.NoError(t, f.db.First(&stored, created.ID).Error)
	assert.JSONEq(t, `{"margins":{"top":35}}`, stored.Config)
}

func TestSetDefaultIsExclusivePerStudyType(t *testing.T) {
	f := newDesignFixture(t)
	admin := seedUser(t, f.db, entity.RoleAdministrator)
	ctx := context.Background()

	first, err := f.uc.CreateDesign(ctx, admin.ID, &dto.CreateDesignRequest{
		Name:      "First",
		StudyType: string(entity.StudyTypeTissueBiopsy),
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	// A default for another study type is unaffected
	other, err := f.uc.CreateDesign(ctx, admin.ID, &dto.CreateDesignRequest{
		Name:      "Cytology default",
		StudyType: string(entity.StudyTypeGeneralCytology),
		IsDefault: true,
	})
	require.NoError(t, err)

	second, err := f.uc.CreateDesign(ctx, admin.ID, &dto.CreateDesignRequest{
		Name:      "Second",
		StudyType: string(entity.StudyTypeTissueBiopsy),
	})
	require.NoError(t, err)

	promoted, err := f.uc.SetDefault(ctx, admin.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)

	var count int64
	require.NoError(t, f.db.Model(&entity.DocumentDesign{}).
		Where("study_type = ? AND is_default = ?", entity.StudyTypeTissueBiopsy, true).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	demoted, err := f.uc.GetDesign(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsDefault)

	stillDefault, err := f.uc.GetDesign(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, stillDefault.IsDefault)
}

func TestUpdateDesignDeactivation(t *testing.T) {
	f := newDesignFixture(t)
	admin := seedUser(t, f.db, entity.RoleAdministrator)
	ctx := context.Background()

	created, err := f.uc.CreateDesign(ctx, admin.ID, &dto.CreateDesignRequest{
		Name:      "Retiring layout",
		StudyType: string(entity.StudyTypeTissueBiopsy),
	})
	require.NoError(t, err)

	inactive := false
	updated, err := f.uc.UpdateDesign(ctx, admin.ID, created.ID, &dto.UpdateDesignRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	listed, err := f.uc.ListDesigns(ctx, entity.StudyTypeTissueBiopsy)
	require.NoError(t, err)
	assert.Equal(t, 0, listed.Total)
}
