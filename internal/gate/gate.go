// Package gate is the role-based authorization checkpoint for the back
// office. Permissions are "resource:action" strings resolved against a
// static per-role table; the admin role holds the "*:*" wildcard.
package gate

import (
	"errors"
	"strings"

	"github.com/mossbrook/landscaping/internal/models"
)

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

// ErrUnauthorized is returned by Authorize when the role may not act.
var ErrUnauthorized = errors.New("unauthorized")

// Permission represents an allowed action on a resource type.
// Format: "resource:action" (e.g. "employee:create", "lead:delete").
type Permission string

// NewPermission creates a permission from resource type and action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

const (
	wildcardAll                     = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// Matches checks if this permission covers a requested permission.
// "*:*" matches everything, "lead:*" matches all lead actions.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	parts := strings.SplitN(string(p), ":", 2)
	reqParts := strings.SplitN(string(requested), ":", 2)
	if len(parts) != 2 || len(reqParts) != 2 {
		return false
	}
	return parts[0] == reqParts[0] && parts[1] == wildcardAll
}

// rolePermissions is the static policy table. Everything not listed for a
// role falls through to denied; plain read access is granted to all roles
// at the router level by RequireAuth, so only mutating permissions appear.
var rolePermissions = map[string][]Permission{
	models.RoleAdmin: {PermissionSuperAdmin},
	models.RoleManager: {
		"client:*", "job:*", "invoice:*", "lead:*",
	},
	models.RoleEmployee: {
		"job:update",
	},
}

// Can reports whether a role may perform action on the resource type.
func Can(role string, action Action, resourceType string) bool {
	requested := NewPermission(resourceType, action)
	for _, p := range rolePermissions[role] {
		if p.Matches(requested) {
			return true
		}
	}
	return false
}

// Authorize is the error-returning form of Can.
func Authorize(role string, action Action, resourceType string) error {
	if !Can(role, action, resourceType) {
		return ErrUnauthorized
	}
	return nil
}
