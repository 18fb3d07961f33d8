package services

import (
	"testing"

	"kusystem/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "metalurgica-lopez", Slugify("Metalurgica Lopez"))
	assert.Equal(t, "acme", Slugify("  ACME  "))
	assert.Equal(t, "a-b-c", Slugify("a__b--c!"))
}

func TestCreateOrganizationMakesOwner(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "auth0|founder", "founder@acme.com")
	service := NewOrganizationService(db)

	tenant, err := service.Create(user, &CreateOrganizationRequest{Name: "ACME Corp"})
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", tenant.Slug)

	var membership models.Membership
	require.NoError(t, db.Where("user_id = ? AND tenant_id = ?", user.ID, tenant.ID).
		First(&membership).Error)
	assert.Equal(t, models.RoleOwner, membership.Role)
}

func TestListMine(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "auth0|u", "u@acme.com")
	other := createTestUser(t, db, "auth0|other", "other@acme.com")
	service := NewOrganizationService(db)

	_, err := service.Create(user, &CreateOrganizationRequest{Name: "Beta"})
	require.NoError(t, err)
	alpha, err := service.Create(user, &CreateOrganizationRequest{Name: "Alpha"})
	require.NoError(t, err)
	_, err = service.Create(other, &CreateOrganizationRequest{Name: "Gamma"})
	require.NoError(t, err)

	// 降级其中一个角色，验证角色随组织返回
	require.NoError(t, db.Model(&models.Membership{}).
		Where("user_id = ? AND tenant_id = ?", user.ID, alpha.ID).
		Update("role", models.RoleMember).Error)

	orgs, err := service.ListMine(user.ID)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "Alpha", orgs[0].Name)
	assert.Equal(t, models.RoleMember, orgs[0].Role)
	assert.Equal(t, "Beta", orgs[1].Name)
	assert.Equal(t, models.RoleOwner, orgs[1].Role)
}

func TestUserResolveOrCreate(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	name := "Ana"
	user, err := service.ResolveOrCreate("auth0|ana", "ana@acme.com", &name)
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	// 幂等：同一身份返回同一记录，邮箱变化时同步
	again, err := service.ResolveOrCreate("auth0|ana", "ana.gomez@acme.com", &name)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	reloaded, err := service.GetByAuthProviderID("auth0|ana")
	require.NoError(t, err)
	assert.Equal(t, "ana.gomez@acme.com", reloaded.Email)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
