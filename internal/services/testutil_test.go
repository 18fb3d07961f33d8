package services

import (
	"testing"

	"kusystem/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 每个测试使用独立的内存数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Membership{},
		&models.Permission{},
		&models.RolePermission{},
		&models.Invitation{},
		&models.Client{},
		&models.ClientBranch{},
		&models.Product{},
		&models.ProductTemplate{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.QuoteAdditionalCharge{},
		&models.QuoteStatusHistory{},
		&models.Employee{},
		&models.EmployeeSchedule{},
		&models.EmployeeAdvance{},
	)
	require.NoError(t, err)

	return db
}

// createTestTenant 建立测试租户
func createTestTenant(t *testing.T, db *gorm.DB, name string) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{Name: name, Slug: Slugify(name)}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

// createTestUser 建立测试用户
func createTestUser(t *testing.T, db *gorm.DB, sub, email string) *models.User {
	t.Helper()

	user := &models.User{AuthProviderID: sub, Email: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestMembership 建立成员关系
func createTestMembership(t *testing.T, db *gorm.DB, userID, tenantID uint, role string) *models.Membership {
	t.Helper()

	membership := &models.Membership{UserID: userID, TenantID: tenantID, Role: role}
	require.NoError(t, db.Create(membership).Error)
	return membership
}
