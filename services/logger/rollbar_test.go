package logsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/padhai-app/padhai/core/user"
)

func TestPersonCustom(t *testing.T) {
	t.Run("student", func(t *testing.T) {
		usr := user.User{Roles: user.StudentRoles, StudentID: "std1"}
		custom := personCustom(usr)
		assert.Equal(t, "student", custom["portal"])
		assert.Equal(t, "std1", custom["student_id"])
	})

	t.Run("parent", func(t *testing.T) {
		usr := user.User{Roles: user.ParentRoles, ChildrenIDs: []string{"std1", "std2"}}
		custom := personCustom(usr)
		assert.Equal(t, "parent", custom["portal"])
		assert.Equal(t, []string{"std1", "std2"}, custom["children_ids"])
	})

	t.Run("staff has no student links", func(t *testing.T) {
		custom := personCustom(user.User{Roles: user.AdminRoles})
		assert.Equal(t, "admin", custom["portal"])
		assert.NotContains(t, custom, "student_id")
		assert.NotContains(t, custom, "children_ids")
	})
}

func TestPortal(t *testing.T) {
	assert.Equal(t, "teacher", portal(user.User{Roles: user.TeacherRoles}))
	assert.Equal(t, "unknown", portal(user.User{}))
}
