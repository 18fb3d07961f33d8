package database

import (
	"kusystem/internal/models"
	"kusystem/pkg/logger"
)

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	err := DB.AutoMigrate(
		// 租户与身份
		&models.Tenant{},
		&models.User{},
		&models.Membership{},
		&models.Permission{},
		&models.RolePermission{},
		&models.Invitation{},
		// 业务数据
		&models.Client{},
		&models.ClientBranch{},
		&models.Product{},
		&models.ProductTemplate{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.QuoteAdditionalCharge{},
		&models.QuoteStatusHistory{},
		// HR排班
		&models.Employee{},
		&models.EmployeeSchedule{},
		&models.EmployeeAdvance{},
	)

	if err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")
	return nil
}
