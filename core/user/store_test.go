package user_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/somalms/soma/core/user"
	testutil "github.com/somalms/soma/tests"
)

func seedUsers() []user.User {
	return []user.User{
		{ID: 1, Nom: "Amani Eto", Email: "amani@test.cd", Role: user.RoleStudent, IsActive: true},
		{ID: 2, Nom: "Mme Kalume", Email: "kalume@test.cd", Role: user.RoleTeacher, IsActive: true},
		{ID: 3, Nom: "Le Boss", Email: "boss@test.cd", Role: user.RoleAdmin, IsActive: false},
	}
}

func TestStore_filter(t *testing.T) {
	e := echo.New()
	e.GET("/users", func(c echo.Context) error { return c.JSON(http.StatusOK, seedUsers()) })
	env := testutil.NewEnv(t, e)
	store := user.NewStore(env.Deps())

	assert.NoError(t, store.Fetch(context.Background(), nil))

	active := true
	tests := []struct {
		name    string
		qf      user.QueryFilter
		wantIDs []int
	}{
		{name: "no filter", qf: user.QueryFilter{}, wantIDs: []int{1, 2, 3}},
		{name: "by name", qf: user.QueryFilter{Search: "kalume"}, wantIDs: []int{2}},
		{name: "by email", qf: user.QueryFilter{Search: "boss@"}, wantIDs: []int{3}},
		{name: "by role", qf: user.QueryFilter{Role: user.RoleStudent}, wantIDs: []int{1}},
		{name: "active only", qf: user.QueryFilter{IsActive: &active}, wantIDs: []int{1, 2}},
		{name: "no match", qf: user.QueryFilter{Search: "lol"}, wantIDs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []int
			for _, usr := range store.Filter(tt.qf) {
				ids = append(ids, usr.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStore_toggleActive(t *testing.T) {
	var mu sync.Mutex
	toggled := 0

	e := echo.New()
	e.GET("/users", func(c echo.Context) error { return c.JSON(http.StatusOK, seedUsers()) })
	e.PATCH("/users/:id/toggle-active", func(c echo.Context) error {
		mu.Lock()
		defer mu.Unlock()
		toggled++
		if c.Param("id") == "3" {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "Vous ne pouvez pas modifier un admin."})
		}
		return c.NoContent(http.StatusNoContent)
	})
	env := testutil.NewEnv(t, e)
	env.LogIn(t, testutil.Admin())
	store := user.NewStore(env.Deps())
	ctx := context.Background()

	assert.NoError(t, store.Fetch(ctx, nil))

	t.Run("optimistic toggle sticks on success", func(t *testing.T) {
		assert.NoError(t, store.ToggleActive(ctx, 1))
		assert.False(t, store.Items()[0].IsActive)
		assert.Equal(t, "success", env.Notifier.Last().Level)
	})

	t.Run("rollback on refusal", func(t *testing.T) {
		before := store.Items()
		assert.Error(t, store.ToggleActive(ctx, 3))
		assert.Equal(t, before, store.Items(), "a refused toggle must restore the previous items")
		assert.Equal(t, "error", env.Notifier.Last().Level)
	})

	t.Run("guard blocks anonymous callers", func(t *testing.T) {
		env.Store.Logout()
		mu.Lock()
		calls := toggled
		mu.Unlock()

		assert.Error(t, store.ToggleActive(ctx, 1))

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, calls, toggled, "the guard must fire before any network call")
	})
}
