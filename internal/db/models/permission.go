package models

import "time"

// Permission represents one discrete capability in the authorization system.
// Permission names have the form "resource:action" (e.g. "product:delete")
// and are grouped into human-readable modules for display.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique permission identifier in resource:action format.
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Resource is the resource this permission applies to (e.g. "user", "product").
	Resource string `gorm:"size:100;not null;index:idx_resource_action" json:"resource"`
	// Action is the action allowed on the resource (create, read, update or delete).
	Action string `gorm:"size:50;not null;index:idx_resource_action" json:"action"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255" json:"description"`
	// Module is the grouping label used when listing permissions per module.
	Module string `gorm:"size:100;not null" json:"module"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Permission model.
// This overrides GORM's default pluralized table naming.
func (Permission) TableName() string {
	return "permissions"
}
