package services

import (
	"kusystem/internal/models"
	"kusystem/pkg/logger"

	"gorm.io/gorm"
)

// RolePermissionService 角色权限配置服务。
// 权限目录全局共享，授权按 (租户, 角色) 维度存储。
type RolePermissionService struct {
	db *gorm.DB
}

// NewRolePermissionService 创建角色权限服务
func NewRolePermissionService(db *gorm.DB) *RolePermissionService {
	return &RolePermissionService{db: db}
}

// RoleOverview 角色概览：角色名及其已授权的权限键
type RoleOverview struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Immutable   bool     `json:"immutable"`
}

// ListCatalog 列出全局权限目录
func (s *RolePermissionService) ListCatalog() ([]models.Permission, error) {
	var permissions []models.Permission
	err := s.db.Order("resource ASC, action ASC").Find(&permissions).Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

// ListRoles 按角色汇总组织内的授权情况。
// owner不走授权表，始终等于完整目录且不可编辑。
func (s *RolePermissionService) ListRoles(tenantID uint) ([]RoleOverview, error) {
	catalog, err := s.ListCatalog()
	if err != nil {
		return nil, err
	}

	ownerKeys := make([]string, 0, len(catalog))
	for _, p := range catalog {
		ownerKeys = append(ownerKeys, p.Key())
	}

	overviews := []RoleOverview{
		{Role: models.RoleOwner, Permissions: ownerKeys, Immutable: true},
	}

	for _, role := range []string{models.RoleAdmin, models.RoleMember} {
		var permissions []models.Permission
		err := s.db.Model(&models.Permission{}).
			Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
			Where("role_permissions.tenant_id = ? AND role_permissions.role = ?", tenantID, role).
			Order("permissions.resource ASC, permissions.action ASC").
			Find(&permissions).Error
		if err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(permissions))
		for _, p := range permissions {
			keys = append(keys, p.Key())
		}
		overviews = append(overviews, RoleOverview{Role: role, Permissions: keys})
	}
	return overviews, nil
}

// SetRolePermissions 以差量方式落库目标权限集：
// 缺少的授权插入，多余的授权删除，保留的不动。owner的权限集不可修改。
func (s *RolePermissionService) SetRolePermissions(tenantID uint, role string, permissionKeys []string) error {
	if role == models.RoleOwner {
		return ErrOwnerImmutable
	}
	if !models.IsValidRole(role) {
		return ErrInvalidRole
	}

	catalog, err := s.ListCatalog()
	if err != nil {
		return err
	}
	idByKey := make(map[string]uint, len(catalog))
	for _, p := range catalog {
		idByKey[p.Key()] = p.ID
	}

	targetIDs := make(map[uint]bool, len(permissionKeys))
	for _, key := range permissionKeys {
		id, ok := idByKey[key]
		if !ok {
			return ErrNotFound
		}
		targetIDs[id] = true
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.RolePermission
		err := tx.Where("tenant_id = ? AND role = ?", tenantID, role).Find(&existing).Error
		if err != nil {
			return err
		}

		existingIDs := make(map[uint]bool, len(existing))
		for _, rp := range existing {
			existingIDs[rp.PermissionID] = true
			if !targetIDs[rp.PermissionID] {
				if err := tx.Delete(&models.RolePermission{}, rp.ID).Error; err != nil {
					return err
				}
			}
		}

		var toInsert []models.RolePermission
		for id := range targetIDs {
			if !existingIDs[id] {
				toInsert = append(toInsert, models.RolePermission{
					TenantID:     tenantID,
					Role:         role,
					PermissionID: id,
				})
			}
		}
		if len(toInsert) > 0 {
			if err := tx.Create(&toInsert).Error; err != nil {
				return err
			}
		}

		logger.GetLogger().WithField("tenant_id", tenantID).
			WithField("role", role).Info("角色权限已更新")
		return nil
	})
}
