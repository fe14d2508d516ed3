package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPermission(t *testing.T) {
	t.Run("builds code from resource and action", func(t *testing.T) {
		perm, err := NewPermission("Article", "Create")
		require.NoError(t, err)
		assert.Equal(t, "article:create", perm.Code)
	})

	t.Run("parses code form", func(t *testing.T) {
		perm, err := NewPermissionFromCode("document:reconcile")
		require.NoError(t, err)
		assert.Equal(t, "document", perm.Resource)
		assert.Equal(t, "reconcile", perm.Action)
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		_, err := NewPermissionFromCode("no-separator")
		assert.Error(t, err)
		_, err = NewPermission("", "create")
		assert.Error(t, err)
		_, err = NewPermission("article", "cre ate")
		assert.Error(t, err)
	})
}

func TestRole(t *testing.T) {
	t.Run("creation validates code and name", func(t *testing.T) {
		role, err := NewRole("Storekeeper", "Magasinier")
		require.NoError(t, err)
		assert.Equal(t, "storekeeper", role.Code)

		_, err = NewRole("", "Magasinier")
		assert.Error(t, err)
		_, err = NewRole("viewer", " ")
		assert.Error(t, err)
	})

	t.Run("grant and revoke permissions", func(t *testing.T) {
		role, err := NewRole("storekeeper", "Magasinier")
		require.NoError(t, err)

		perm, _ := NewPermission("article", "create")
		role.GrantPermission(*perm)
		role.GrantPermission(*perm)
		assert.Len(t, role.Permissions, 1)
		assert.True(t, role.HasPermission("article:create"))

		role.RevokePermission(*perm)
		assert.False(t, role.HasPermission("article:create"))
	})

	t.Run("admin role grants everything", func(t *testing.T) {
		role, err := NewRole(RoleCodeAdmin, "Administrateur")
		require.NoError(t, err)
		assert.True(t, role.HasPermission("anything:atall"))
	})

	t.Run("system roles are immutable", func(t *testing.T) {
		role, err := NewRole("viewer", "Lecture seule")
		require.NoError(t, err)
		role.IsSystem = true

		assert.Error(t, role.Update("New name", ""))
		assert.Error(t, role.SetPermissions(nil))
	})
}
