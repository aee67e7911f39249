package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/GoShopAdmin/GoShopAdmin/internal/db/models"
)

// Permission constants name the available permissions in the system.
// Names have the form resource:action and are stable identifiers: handlers
// declare the permission they require, and users are granted them by name.
const (
	// PermUserCreate allows creating new users.
	PermUserCreate = "user:create"
	// PermUserRead allows viewing users.
	PermUserRead = "user:read"
	// PermUserUpdate allows updating user information.
	PermUserUpdate = "user:update"
	// PermUserDelete allows deactivating users.
	PermUserDelete = "user:delete"

	// PermProductCreate allows creating new products.
	PermProductCreate = "product:create"
	// PermProductRead allows viewing products.
	PermProductRead = "product:read"
	// PermProductUpdate allows updating product information.
	PermProductUpdate = "product:update"
	// PermProductDelete allows deactivating products.
	PermProductDelete = "product:delete"

	// PermPermissionRead allows viewing the permission catalog.
	PermPermissionRead = "permission:read"

	// PermDashboardRead allows viewing the dashboard.
	PermDashboardRead = "dashboard:read"
)

// Catalog returns the full permission catalog seeded at startup.
func Catalog() []models.Permission {
	return []models.Permission{
		{
			Name:        PermUserCreate,
			Resource:    "user",
			Action:      "create",
			Description: "Create new users",
			Module:      "User Management",
		},
		{
			Name:        PermUserRead,
			Resource:    "user",
			Action:      "read",
			Description: "View users",
			Module:      "User Management",
		},
		{
			Name:        PermUserUpdate,
			Resource:    "user",
			Action:      "update",
			Description: "Update user information",
			Module:      "User Management",
		},
		{
			Name:        PermUserDelete,
			Resource:    "user",
			Action:      "delete",
			Description: "Delete users",
			Module:      "User Management",
		},
		{
			Name:        PermProductCreate,
			Resource:    "product",
			Action:      "create",
			Description: "Create new products",
			Module:      "Product Management",
		},
		{
			Name:        PermProductRead,
			Resource:    "product",
			Action:      "read",
			Description: "View products",
			Module:      "Product Management",
		},
		{
			Name:        PermProductUpdate,
			Resource:    "product",
			Action:      "update",
			Description: "Update product information",
			Module:      "Product Management",
		},
		{
			Name:        PermProductDelete,
			Resource:    "product",
			Action:      "delete",
			Description: "Delete products",
			Module:      "Product Management",
		},
		{
			Name:        PermPermissionRead,
			Resource:    "permission",
			Action:      "read",
			Description: "View permissions",
			Module:      "Permission Management",
		},
		{
			Name:        PermDashboardRead,
			Resource:    "dashboard",
			Action:      "read",
			Description: "View dashboard",
			Module:      "Dashboard",
		},
	}
}

// SeedPermissions upserts the permission catalog by name.
// It is additive only: definitions removed from the catalog are not deleted
// from the database. Safe to run on every start.
func SeedPermissions(db *gorm.DB) error {
	for _, def := range Catalog() {
		perm := models.Permission{Name: def.Name}

		err := db.Where("name = ?", def.Name).
			Assign(models.Permission{
				Name:        def.Name,
				Resource:    def.Resource,
				Action:      def.Action,
				Description: def.Description,
				Module:      def.Module,
			}).
			FirstOrCreate(&perm).Error
		if err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", def.Name, err)
		}
	}

	return nil
}

// ListPermissions returns all permissions ordered by (module, resource, action).
func ListPermissions(db *gorm.DB) ([]models.Permission, error) {
	var permissions []models.Permission

	err := db.Order("module ASC, resource ASC, action ASC").Find(&permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	return permissions, nil
}

// PermissionsByModule returns all permissions partitioned by module label.
// Each partition keeps the (resource, action) ordering of ListPermissions.
func PermissionsByModule(db *gorm.DB) (map[string][]models.Permission, error) {
	permissions, err := ListPermissions(db)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.Permission)
	for _, perm := range permissions {
		grouped[perm.Module] = append(grouped[perm.Module], perm)
	}

	return grouped, nil
}
