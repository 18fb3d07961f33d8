package services

import (
	"testing"

	"kusystem/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveLastOwnerRejected(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	owner := createTestUser(t, db, "auth0|owner", "owner@acme.com")
	ownerMembership := createTestMembership(t, db, owner.ID, tenant.ID, models.RoleOwner)
	service := NewMemberService(db)

	err := service.Remove(tenant.ID, ownerMembership.ID)
	assert.ErrorIs(t, err, ErrLastOwner)

	// 存在第二个owner时可以移除
	second := createTestUser(t, db, "auth0|second", "second@acme.com")
	createTestMembership(t, db, second.ID, tenant.ID, models.RoleOwner)

	err = service.Remove(tenant.ID, ownerMembership.ID)
	assert.NoError(t, err)
}

func TestDemoteLastOwnerRejected(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	owner := createTestUser(t, db, "auth0|owner", "owner@acme.com")
	ownerMembership := createTestMembership(t, db, owner.ID, tenant.ID, models.RoleOwner)
	service := NewMemberService(db)

	_, err := service.ChangeRole(tenant.ID, ownerMembership.ID, models.RoleMember)
	assert.ErrorIs(t, err, ErrLastOwner)

	second := createTestUser(t, db, "auth0|second", "second@acme.com")
	createTestMembership(t, db, second.ID, tenant.ID, models.RoleOwner)

	changed, err := service.ChangeRole(tenant.ID, ownerMembership.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, changed.Role)
}

func TestChangeRoleInvalid(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	user := createTestUser(t, db, "auth0|u", "u@acme.com")
	membership := createTestMembership(t, db, user.ID, tenant.ID, models.RoleMember)
	service := NewMemberService(db)

	_, err := service.ChangeRole(tenant.ID, membership.ID, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestMyPermissionsOwnerGetsCatalog(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	require.NoError(t, db.Create(&models.Permission{Resource: "quotes", Action: "view"}).Error)
	require.NoError(t, db.Create(&models.Permission{Resource: "quotes", Action: "edit"}).Error)

	service := NewMemberService(db)

	ownerKeys, err := service.MyPermissions(tenant.ID, &models.Membership{Role: models.RoleOwner})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"quotes:view", "quotes:edit"}, ownerKeys)

	memberKeys, err := service.MyPermissions(tenant.ID, &models.Membership{Role: models.RoleMember})
	require.NoError(t, err)
	assert.Empty(t, memberKeys)
}

func TestMyPermissionsGrantedOnly(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")

	view := models.Permission{Resource: "quotes", Action: "view"}
	edit := models.Permission{Resource: "quotes", Action: "edit"}
	require.NoError(t, db.Create(&view).Error)
	require.NoError(t, db.Create(&edit).Error)
	require.NoError(t, db.Create(&models.RolePermission{
		TenantID: tenant.ID, Role: models.RoleMember, PermissionID: view.ID,
	}).Error)

	service := NewMemberService(db)
	keys, err := service.MyPermissions(tenant.ID, &models.Membership{Role: models.RoleMember})
	require.NoError(t, err)
	assert.Equal(t, []string{"quotes:view"}, keys)
}

func TestMemberList(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	owner := createTestUser(t, db, "auth0|owner", "owner@acme.com")
	member := createTestUser(t, db, "auth0|member", "member@acme.com")
	createTestMembership(t, db, owner.ID, tenant.ID, models.RoleOwner)
	createTestMembership(t, db, member.ID, tenant.ID, models.RoleMember)

	service := NewMemberService(db)
	members, err := service.List(tenant.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "owner@acme.com", members[0].Email)
	assert.Equal(t, models.RoleOwner, members[0].Role)
}
