package main

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/term"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/user"
	logsvc "github.com/somalms/soma/services/logger"
)

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func testToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("testToken() failed: %v", err)
	}
	return token
}

// fakeAPI is the slice of the backend the CLI flows below touch.
func fakeAPI(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.Bind(&creds); err != nil {
			return err
		}
		if creds.Password != "mdr123" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Identifiants invalides."})
		}
		usr := user.User{ID: 1, Nom: "Amani Eto", Email: creds.Email, Role: user.RoleStudent, IsActive: true}
		if creds.Email == "boss@test.cd" {
			usr = user.User{ID: 3, Nom: "Le Boss", Email: creds.Email, Role: user.RoleAdmin, IsActive: true}
		}
		return c.JSON(http.StatusOK, echo.Map{
			"token": testToken(t),
			"user":  usr,
		})
	})
	e.GET("/users", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []user.User{
			{ID: 1, Nom: "Amani Eto", Email: "amani@test.cd", Role: user.RoleStudent, IsActive: true},
		})
	})
	e.DELETE("/users/:id", func(c echo.Context) error {
		t.Errorf("unexpected DELETE /users/%s", c.Param("id"))
		return c.NoContent(http.StatusNoContent)
	})
	return e
}

func setup(t *testing.T) (*application, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(fakeAPI(t))
	t.Cleanup(srv.Close)

	readPasswordFunc = func(int) ([]byte, error) { return []byte("mdr123"), nil }
	t.Cleanup(func() { readPasswordFunc = term.ReadPassword })

	conf := &core.Config{
		AppName:     "Soma",
		TestMode:    true,
		SessionFile: filepath.Join(t.TempDir(), "session.json"),
		Client: core.ClientConfig{
			BaseURL:        srv.URL,
			RequestTimeout: 5 * time.Second,
			UploadTimeout:  10 * time.Second,
		},
	}
	app := newApplication(conf, logsvc.NewStdLogger(log.New(io.Discard, "", 0)))

	var out bytes.Buffer
	app.out = &out
	return app, &out
}

func Test_run_dispatch(t *testing.T) {
	app, _ := setup(t)

	tests := []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login without email", args: []string{"login"}, wantErr: errHelp},
		{name: "whoami while anonymous", args: []string{"whoami"}, wantErrStr: "please log in first (portal login)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := app.run(append([]string{"portal"}, tt.args...))
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else if tt.wantErrStr != "" {
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_run_loginFlow(t *testing.T) {
	app, out := setup(t)

	assert.NoError(t, app.run([]string{"portal", "login", "-email", "amani@test.cd"}))
	assert.Contains(t, out.String(), "Welcome Amani Eto")
	assert.Contains(t, out.String(), "-> /student")
	assert.True(t, app.store.IsLoggedIn())

	out.Reset()
	assert.NoError(t, app.run([]string{"portal", "whoami"}))
	assert.Contains(t, out.String(), "amani@test.cd")

	out.Reset()
	assert.NoError(t, app.run([]string{"portal", "logout"}))
	assert.Contains(t, out.String(), "Logged out.")
	assert.False(t, app.store.IsLoggedIn())
}

func Test_run_adminLanding(t *testing.T) {
	app, out := setup(t)

	assert.NoError(t, app.run([]string{"portal", "login", "-email", "boss@test.cd"}))
	assert.Contains(t, out.String(), "-> /admin")
}

func Test_run_roleGuards(t *testing.T) {
	app, _ := setup(t)

	assert.NoError(t, app.run([]string{"portal", "login", "-email", "amani@test.cd"}))

	// a student may not reach the teacher or admin surface
	for _, args := range [][]string{
		{"portal", "grade", "-submission", "1", "-points", "10"},
		{"portal", "add-formation", "-title", "T", "-category", "C"},
		{"portal", "update-formation", "-id", "1", "-title", "T"},
		{"portal", "users"},
		{"portal", "toggle-user", "-id", "1"},
	} {
		err := app.run(args)
		if assert.Error(t, err, "%v", args) {
			assert.Equal(t, "you do not have permission to do this", err.Error())
		}
	}
}

func Test_run_deluserConfirmation(t *testing.T) {
	app, out := setup(t)

	assert.NoError(t, app.run([]string{"portal", "login", "-email", "boss@test.cd"}))

	// declining the prompt must not touch the backend (the fake fails the
	// test on any DELETE)
	app.in = bytes.NewBufferString("n\n")
	assert.NoError(t, app.run([]string{"portal", "deluser", "-id", "1"}))
	assert.Contains(t, out.String(), "Delete user #1?")
}
