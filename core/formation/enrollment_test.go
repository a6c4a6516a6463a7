package formation_test

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/somalms/soma/core/formation"
	testutil "github.com/somalms/soma/tests"
)

// enrollBackend keeps the enrolled formation ids server-side.
type enrollBackend struct {
	mu       sync.Mutex
	enrolled []int
}

func (b *enrollBackend) register(e *echo.Echo) {
	e.GET("/enrollments", func(c echo.Context) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := make([]formation.Enrollment, 0, len(b.enrolled))
		for i, id := range b.enrolled {
			out = append(out, formation.Enrollment{ID: i + 1, FormationID: id})
		}
		return c.JSON(http.StatusOK, out)
	})
	e.POST("/formations/:id/enroll", func(c echo.Context) error {
		id, _ := strconv.Atoi(c.Param("id"))
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, got := range b.enrolled {
			if got == id {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Vous etes deja inscrit a cette formation."})
			}
		}
		b.enrolled = append(b.enrolled, id)
		return c.JSON(http.StatusCreated, echo.Map{"formation_id": id})
	})
	e.DELETE("/formations/:id/unenroll", func(c echo.Context) error {
		id, _ := strconv.Atoi(c.Param("id"))
		b.mu.Lock()
		defer b.mu.Unlock()
		kept := b.enrolled[:0]
		for _, got := range b.enrolled {
			if got != id {
				kept = append(kept, got)
			}
		}
		b.enrolled = kept
		return c.NoContent(http.StatusNoContent)
	})
}

func setup(t *testing.T, backend *enrollBackend) (*formation.EnrollmentStore, *testutil.Env) {
	t.Helper()
	e := echo.New()
	backend.register(e)
	env := testutil.NewEnv(t, e)
	return formation.NewEnrollmentStore(env.Deps()), env
}

func TestEnrollmentStore_enroll(t *testing.T) {
	store, env := setup(t, &enrollBackend{})
	env.LogIn(t, testutil.Student())
	ctx := context.Background()

	assert.NoError(t, store.Enroll(ctx, 7))
	assert.True(t, store.IsEnrolled(7))
	assert.Equal(t, []int{7}, store.EnrolledIDs())
	assert.Equal(t, "success", env.Notifier.Last().Level)
}

func TestEnrollmentStore_enrollRequiresLogin(t *testing.T) {
	backend := &enrollBackend{}
	store, env := setup(t, backend)

	assert.Error(t, store.Enroll(context.Background(), 7))
	assert.Equal(t, "error", env.Notifier.Last().Level)
	assert.Empty(t, backend.enrolled)
}

// a second enroll is not a failure: the backend says 422, the user just
// learns they were already in
func TestEnrollmentStore_alreadyEnrolledIsInfo(t *testing.T) {
	store, env := setup(t, &enrollBackend{enrolled: []int{7}})
	env.LogIn(t, testutil.Student())

	assert.NoError(t, store.Enroll(context.Background(), 7))
	last := env.Notifier.Last()
	assert.Equal(t, "info", last.Level)
	assert.Equal(t, "Vous etes deja inscrit a cette formation.", last.Message)
}

func TestEnrollmentStore_unenroll(t *testing.T) {
	store, env := setup(t, &enrollBackend{enrolled: []int{7, 9}})
	env.LogIn(t, testutil.Student())
	ctx := context.Background()

	assert.NoError(t, store.Fetch(ctx, nil))
	assert.True(t, store.IsEnrolled(7))

	assert.NoError(t, store.Unenroll(ctx, 7))
	assert.False(t, store.IsEnrolled(7))
	assert.Equal(t, []int{9}, store.EnrolledIDs())
}

func TestEnrollmentStore_unenrollInvalidatesProgress(t *testing.T) {
	store, env := setup(t, &enrollBackend{enrolled: []int{7}})
	env.LogIn(t, testutil.Student())

	progressKey := "progress:/progress?formation_id=7"
	env.Cache.Put(progressKey, []byte(`[]`))
	env.Cache.Put("formations:/formations?", []byte(`[]`))

	assert.NoError(t, store.Unenroll(context.Background(), 7))

	_, ok := env.Cache.Get(progressKey)
	assert.False(t, ok, "progress queries must be dropped with the enrollment")
	_, ok = env.Cache.Get("formations:/formations?")
	assert.False(t, ok, "formation totals changed too")
}
