package profile_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/profile"
	"github.com/somalms/soma/core/pubsub"
	"github.com/somalms/soma/core/session"
	"github.com/somalms/soma/core/user"
	"github.com/somalms/soma/services/rest"
	testutil "github.com/somalms/soma/tests"
)

func setup(t *testing.T, e *echo.Echo) (*profile.Service, *session.Manager, *testutil.Env) {
	t.Helper()
	env := testutil.NewEnv(t, e)
	env.LogIn(t, testutil.Student())
	mgr := session.NewManager(env.Store, rest.NewAuthAPI(env.Client), env.Bus, env.Logger)
	return profile.NewService(env.Client, mgr, env.Notifier), mgr, env
}

func TestService_fetch(t *testing.T) {
	t.Run("backend profile wins", func(t *testing.T) {
		e := echo.New()
		e.GET("/profile", func(c echo.Context) error {
			return c.JSON(http.StatusOK, user.User{ID: 1, Nom: "Du Serveur", Role: user.RoleStudent})
		})
		svc, _, _ := setup(t, e)

		usr, err := svc.Fetch(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "Du Serveur", usr.Nom)
	})

	t.Run("missing profile seeds from the session", func(t *testing.T) {
		e := echo.New()
		e.GET("/profile", func(c echo.Context) error {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Not Found"})
		})
		svc, _, _ := setup(t, e)

		usr, err := svc.Fetch(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, testutil.Student().Nom, usr.Nom)
	})
}

func TestService_updatePatchesSession(t *testing.T) {
	e := echo.New()
	e.PUT("/profile", func(c echo.Context) error {
		var up user.UpdateProfile
		if err := c.Bind(&up); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, user.User{ID: 1, Nom: up.Nom, Role: user.RoleStudent})
	})
	svc, mgr, env := setup(t, e)

	events, cancel := env.Bus.Subscribe(pubsub.TopicUserUpdated)
	defer cancel()

	usr, err := svc.Update(context.Background(), user.UpdateProfile{Nom: "Nouveau Nom", Ville: "Goma"})
	assert.NoError(t, err)
	assert.Equal(t, "Nouveau Nom", usr.Nom)

	if cur := mgr.CurrentUser(); assert.NotNil(t, cur) {
		assert.Equal(t, "Nouveau Nom", cur.Nom)
		assert.Equal(t, "Goma", cur.Ville.String)
	}
	assert.Equal(t, "success", env.Notifier.Last().Level)

	select {
	case <-events:
	default:
		t.Error("expected a user updated event")
	}
}

func TestService_updateFailureLeavesSessionAlone(t *testing.T) {
	e := echo.New()
	e.PUT("/profile", func(c echo.Context) error {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "tel invalide"})
	})
	svc, mgr, env := setup(t, e)

	_, err := svc.Update(context.Background(), user.UpdateProfile{Tel: "lol"})
	assert.Error(t, err)
	assert.Equal(t, "error", env.Notifier.Last().Level)
	if cur := mgr.CurrentUser(); assert.NotNil(t, cur) {
		assert.Equal(t, testutil.Student().Nom, cur.Nom)
	}
}

func TestService_uploadAvatar(t *testing.T) {
	e := echo.New()
	e.POST("/profile/photo", func(c echo.Context) error {
		f, err := c.FormFile("photo")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "photo manquante"})
		}
		return c.JSON(http.StatusOK, echo.Map{"photo": "photos/" + f.Filename})
	})
	svc, mgr, env := setup(t, e)

	file := core.UploadFile{Field: "photo", FileName: "moi.jpg", Reader: strings.NewReader("jpeg bytes")}
	assert.NoError(t, svc.UploadAvatar(context.Background(), file, nil))

	if cur := mgr.CurrentUser(); assert.NotNil(t, cur) {
		assert.Equal(t, "photos/moi.jpg", cur.Photo.String)
		assert.Equal(t, "/storage/photos/moi.jpg", cur.PhotoURL())
	}
	assert.Equal(t, "success", env.Notifier.Last().Level)
}
