package services

import (
	"testing"

	"kusystem/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestGetOrCreateGenericIdempotent(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	service := NewProductService(db)

	first, err := service.GetOrCreateGeneric(tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, first.SKU)
	assert.Equal(t, models.GenericProductSKU, *first.SKU)

	second, err := service.GetOrCreateGeneric(tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).
		Where("tenant_id = ? AND sku = ?", tenant.ID, models.GenericProductSKU).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenericProductPerTenant(t *testing.T) {
	db := setupTestDB(t)
	tenantA := createTestTenant(t, db, "Alpha")
	tenantB := createTestTenant(t, db, "Beta")
	service := NewProductService(db)

	a, err := service.GetOrCreateGeneric(tenantA.ID)
	require.NoError(t, err)
	b, err := service.GetOrCreateGeneric(tenantB.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDeleteTemplateGuardedWhileReferenced(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	service := NewProductService(db)

	template, err := service.CreateTemplate(tenant.ID, &TemplateRequest{
		Name:       "Perfil",
		Attributes: datatypes.JSON([]byte(`{"fields":["largo","ancho"]}`)),
	})
	require.NoError(t, err)

	product, err := service.Create(tenant.ID, &CreateProductRequest{
		Name:       "Perfil 20x20",
		Price:      dec("15000"),
		TemplateID: &template.ID,
	})
	require.NoError(t, err)

	err = service.DeleteTemplate(tenant.ID, template.ID)
	assert.ErrorIs(t, err, ErrTemplateInUse)

	// 引用解除后可以删除
	require.NoError(t, service.Delete(tenant.ID, product.ID))
	assert.NoError(t, service.DeleteTemplate(tenant.ID, template.ID))
}

func TestProductSearch(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	service := NewProductService(db)

	for _, p := range []CreateProductRequest{
		{Name: "Chapa galvanizada", SKU: strPtr("CH-001"), Price: dec("100")},
		{Name: "Chapa negra", SKU: strPtr("CH-002"), Price: dec("90")},
		{Name: "Perfil C", SKU: strPtr("PF-001"), Price: dec("50")},
	} {
		req := p
		_, err := service.Create(tenant.ID, &req)
		require.NoError(t, err)
	}

	products, _, err := service.List(tenant.ID, 1, 20, "chapa galvanizada")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Chapa galvanizada", products[0].Name)

	// 词元可命中不同字段
	products, _, err = service.List(tenant.ID, 1, 20, "ch-001")
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestProductUpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	service := NewProductService(db)

	product, err := service.Create(tenant.ID, &CreateProductRequest{
		Name:  "Chapa",
		Price: dec("100"),
	})
	require.NoError(t, err)

	newPrice := dec("120")
	updated, err := service.Update(tenant.ID, product.ID, &UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)

	reloaded, err := service.GetByID(tenant.ID, updated.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chapa", reloaded.Name)
	assert.True(t, reloaded.Price.Equal(dec("120")))
}
