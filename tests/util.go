package testutil

import (
	"io"
	"log"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/pubsub"
	"github.com/somalms/soma/core/resource"
	"github.com/somalms/soma/core/session"
	"github.com/somalms/soma/core/user"
	logsvc "github.com/somalms/soma/services/logger"
	notifysvc "github.com/somalms/soma/services/notify"
	"github.com/somalms/soma/services/rest"
)

var tokenSecret = []byte("secret")

// Env bundles a fake backend and a fully wired client stack for tests.
type Env struct {
	Server   *httptest.Server
	Store    *session.Store
	Client   *rest.Client
	Cache    *resource.Cache
	Notifier *notifysvc.Recorder
	Bus      *pubsub.Bus
	Logger   core.Logger

	// UnauthorizedCalls counts how many times the client fired its
	// session-expired hook.
	UnauthorizedCalls int
}

// NewEnv starts the given echo app as the backend and wires a client against
// it. The session file lives in a test temp dir and the server is shut down
// on cleanup.
func NewEnv(t *testing.T, e *echo.Echo) *Env {
	t.Helper()

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	env := &Env{
		Server:   srv,
		Store:    session.NewStore(filepath.Join(t.TempDir(), "session.json"), logger),
		Cache:    resource.NewCache(),
		Notifier: notifysvc.NewRecorder(),
		Bus:      pubsub.NewBus(),
		Logger:   logger,
	}
	env.Client = rest.NewClient(
		core.ClientConfig{
			BaseURL:        srv.URL,
			RequestTimeout: 5 * time.Second,
			UploadTimeout:  10 * time.Second,
		},
		env.Store,
		logger,
		func() { env.UnauthorizedCalls++ },
	)
	return env
}

// Deps returns the store dependencies every resource store takes.
func (env *Env) Deps() resource.Deps {
	return resource.Deps{
		Client:   env.Client,
		Auth:     env.Store,
		Cache:    env.Cache,
		Notifier: env.Notifier,
	}
}

// LogIn persists a valid token and the given user so the client sends
// Authorization headers and the stores pass their auth guards.
func (env *Env) LogIn(t *testing.T, usr user.User) {
	t.Helper()
	if err := env.Store.SaveAuth(Token(t, time.Hour), usr); err != nil {
		t.Fatalf("LogIn() failed: %v", err)
	}
}

// Token signs a token expiring ttl from now; pass a negative ttl for an
// already expired one.
func Token(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenSecret)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

// Student returns an active student account for tests.
func Student() user.User {
	return user.User{ID: 1, Nom: "Amani Eto", Email: "amani@test.cd", Role: user.RoleStudent, IsActive: true}
}

// Teacher returns an active teacher account for tests.
func Teacher() user.User {
	return user.User{ID: 2, Nom: "Mme Kalume", Email: "kalume@test.cd", Role: user.RoleTeacher, IsActive: true}
}

// Admin returns an active admin account for tests.
func Admin() user.User {
	return user.User{ID: 3, Nom: "Le Boss", Email: "boss@test.cd", Role: user.RoleAdmin, IsActive: true}
}
