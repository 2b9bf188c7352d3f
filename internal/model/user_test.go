package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermissionMonotonic(t *testing.T) {
	roles := []Role{RoleView, RoleMonitor, RoleStaff, RoleAdmin}

	for _, held := range roles {
		for _, required := range roles {
			u := &User{Username: "x", Role: held, Active: true}
			want := held.Level() >= required.Level()
			assert.Equalf(t, want, u.HasPermission(required),
				"held=%s required=%s", held, required)
		}
	}
}

func TestHasPermissionNilAndUnknown(t *testing.T) {
	var u *User
	assert.False(t, u.HasPermission(RoleView))

	corrupt := &User{Username: "x", Role: Role("SUPERUSER")}
	assert.False(t, corrupt.HasPermission(RoleView))
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"admin", RoleAdmin, true},
		{"ADMIN", RoleAdmin, true},
		{" Staff ", RoleStaff, true},
		{"monitor", RoleMonitor, true},
		{"view", RoleView, true},
		{"owner", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		require.Equalf(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseAnimalType(t *testing.T) {
	for _, typ := range AllAnimalTypes() {
		got, ok := ParseAnimalType(string(typ))
		require.True(t, ok)
		assert.Equal(t, typ, got)
	}

	_, ok := ParseAnimalType("hamster")
	assert.False(t, ok)
}

func TestAnimalAvailability(t *testing.T) {
	a := &Animal{TrainingStatus: "In Service", Reserved: false}
	assert.True(t, a.InService())
	assert.True(t, a.Available())

	a.Reserved = true
	assert.False(t, a.Available())

	b := &Animal{TrainingStatus: "Phase III"}
	assert.False(t, b.InService())
	assert.False(t, b.Available())
}
