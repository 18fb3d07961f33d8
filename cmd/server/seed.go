package main

import (
	"fmt"

	"kusystem/internal/database"
	"kusystem/internal/models"
	"kusystem/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
func seedData() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	if err := initializePermissions(db); err != nil {
		return fmt.Errorf("初始化权限目录失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// initializePermissions 初始化全局权限目录。目录跨租户共享，
// 已存在的条目保持不变，只补充缺失项。
func initializePermissions(db *gorm.DB) error {
	catalog := []models.Permission{
		// 组织
		{Resource: "organization", Action: "view", Description: "查看组织信息"},
		{Resource: "organization", Action: "manage", Description: "修改组织信息"},

		// 成员与邀请
		{Resource: "members", Action: "view", Description: "查看成员列表"},
		{Resource: "members", Action: "manage", Description: "管理成员与角色"},
		{Resource: "invitations", Action: "manage", Description: "管理组织邀请"},

		// 角色权限配置
		{Resource: "admin", Action: "manage-permissions", Description: "配置角色权限"},

		// 客户
		{Resource: "clients", Action: "view", Description: "查看客户"},
		{Resource: "clients", Action: "manage", Description: "管理客户与分支机构"},

		// 商品
		{Resource: "products", Action: "view", Description: "查看商品"},
		{Resource: "products", Action: "manage", Description: "管理商品与模板"},

		// 报价单
		{Resource: "quotes", Action: "view", Description: "查看报价单"},
		{Resource: "quotes", Action: "create", Description: "创建报价单"},
		{Resource: "quotes", Action: "edit", Description: "编辑报价单"},
		{Resource: "quotes", Action: "delete", Description: "删除报价单"},
		{Resource: "quotes", Action: "change-status", Description: "变更报价单状态"},
		{Resource: "quotes", Action: "manage-public", Description: "管理报价单公开链接"},

		// 人事排班
		{Resource: "hr", Action: "view", Description: "查看排班与员工"},
		{Resource: "hr", Action: "manage", Description: "管理排班与员工"},

		// 分析报表
		{Resource: "analytics", Action: "view", Description: "查看分析报表"},
	}

	for _, permission := range catalog {
		var count int64
		err := db.Model(&models.Permission{}).
			Where("resource = ? AND action = ?", permission.Resource, permission.Action).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&permission).Error; err != nil {
			return err
		}
		logger.GetLogger().Infof("权限已登记: %s", permission.Key())
	}
	return nil
}
