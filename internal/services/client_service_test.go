package services

import (
	"testing"

	"kusystem/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSearchAcrossFields(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	service := NewClientService(db)

	_, err := service.Create(tenant.ID, &CreateClientRequest{
		Name:  "Ferretería Central",
		TaxID: strPtr("80012345-7"),
		Phone: strPtr("+595 981 111222"),
	})
	require.NoError(t, err)
	_, err = service.Create(tenant.ID, &CreateClientRequest{
		Name:  "Constructora Sur",
		Email: strPtr("ventas@sur.com.py"),
	})
	require.NoError(t, err)

	// 词元可以命中不同字段：名称与税号
	clients, _, err := service.List(tenant.ID, 1, 20, "ferretería 80012345")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Ferretería Central", clients[0].Name)

	clients, _, err = service.List(tenant.ID, 1, 20, "ventas@sur")
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestClientBranchesCascade(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	service := NewClientService(db)

	client, err := service.Create(tenant.ID, &CreateClientRequest{Name: "Cliente"})
	require.NoError(t, err)

	branch, err := service.CreateBranch(tenant.ID, client.ID, &BranchRequest{
		Name:    "Casa Central",
		Address: strPtr("Av. Principal 123"),
	})
	require.NoError(t, err)

	branches, err := service.ListBranches(tenant.ID, client.ID)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, branch.ID, branches[0].ID)

	// 分支机构属于客户：客户不存在时一并404
	_, err = service.ListBranches(tenant.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.UpdateBranch(tenant.ID, client.ID, "missing", &BranchRequest{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientUpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	service := NewClientService(db)

	client, err := service.Create(tenant.ID, &CreateClientRequest{
		Name:  "Cliente",
		Phone: strPtr("111"),
	})
	require.NoError(t, err)

	_, err = service.Update(tenant.ID, client.ID, &UpdateClientRequest{
		Email: strPtr("nuevo@x.com"),
	})
	require.NoError(t, err)

	var reloaded models.Client
	require.NoError(t, db.First(&reloaded, "id = ?", client.ID).Error)
	assert.Equal(t, "Cliente", reloaded.Name)
	require.NotNil(t, reloaded.Phone)
	assert.Equal(t, "111", *reloaded.Phone)
	require.NotNil(t, reloaded.Email)
	assert.Equal(t, "nuevo@x.com", *reloaded.Email)
}
