package rest

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/somalms/soma/core"
	logsvc "github.com/somalms/soma/services/logger"
)

// fakeTokens is an in-memory TokenStore.
type fakeTokens struct {
	token   string
	logouts int
}

func (f *fakeTokens) Token() string { return f.token }
func (f *fakeTokens) Logout()       { f.token = ""; f.logouts++ }

func validToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("validToken() failed: %v", err)
	}
	return token
}

func newTestClient(t *testing.T, e *echo.Echo, tokens *fakeTokens) (*Client, *int) {
	t.Helper()
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	var unauthorized int
	client := NewClient(
		core.ClientConfig{BaseURL: srv.URL, RequestTimeout: 5 * time.Second, UploadTimeout: 10 * time.Second},
		tokens,
		logsvc.NewStdLogger(log.New(io.Discard, "", 0)),
		func() { unauthorized++ },
	)
	return client, &unauthorized
}

func TestClient_bearerInjection(t *testing.T) {
	var gotAuth string
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error {
		gotAuth = c.Request().Header.Get("Authorization")
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})

	t.Run("valid token attached", func(t *testing.T) {
		tok := validToken(t)
		client, _ := newTestClient(t, e, &fakeTokens{token: tok})
		assert.NoError(t, client.Get(context.Background(), "/ping", nil, nil))
		assert.Equal(t, "Bearer "+tok, gotAuth)
	})

	t.Run("no token, no header", func(t *testing.T) {
		client, _ := newTestClient(t, e, &fakeTokens{})
		assert.NoError(t, client.Get(context.Background(), "/ping", nil, nil))
		assert.Empty(t, gotAuth)
	})

	t.Run("expired token not attached", func(t *testing.T) {
		client, _ := newTestClient(t, e, &fakeTokens{token: "expired.but.present"})
		assert.NoError(t, client.Get(context.Background(), "/ping", nil, nil))
		assert.Empty(t, gotAuth)
	})
}

func TestClient_unauthorizedPolicy(t *testing.T) {
	e := echo.New()
	unauth := func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated."})
	}
	e.GET("/courses", unauth)
	e.POST("/login", unauth)
	e.POST("/register", unauth)

	t.Run("401 on a data route clears the session once", func(t *testing.T) {
		tokens := &fakeTokens{token: validToken(t)}
		client, unauthorized := newTestClient(t, e, tokens)

		err := client.Get(context.Background(), "/courses", nil, nil)
		assert.Error(t, err)
		assert.Equal(t, 1, tokens.logouts)
		assert.Equal(t, 1, *unauthorized)
	})

	t.Run("401 on login is a credentials problem", func(t *testing.T) {
		tokens := &fakeTokens{}
		client, unauthorized := newTestClient(t, e, tokens)

		err := client.Post(context.Background(), "/login", echo.Map{"email": "a@b.cd"}, nil)
		assert.Error(t, err)
		assert.Equal(t, 0, tokens.logouts)
		assert.Equal(t, 0, *unauthorized)
	})

	t.Run("401 on register is a credentials problem", func(t *testing.T) {
		tokens := &fakeTokens{}
		client, unauthorized := newTestClient(t, e, tokens)

		err := client.Post(context.Background(), "/register", echo.Map{}, nil)
		assert.Error(t, err)
		assert.Equal(t, 0, tokens.logouts)
		assert.Equal(t, 0, *unauthorized)
	})
}

func TestClient_errorNormalization(t *testing.T) {
	e := echo.New()
	e.GET("/message", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "mauvaise requete"})
	})
	e.GET("/error", func(c echo.Context) error {
		return c.JSON(http.StatusConflict, echo.Map{"error": "deja inscrit"})
	})
	e.GET("/fields", func(c echo.Context) error {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "The given data was invalid.",
			"errors":  echo.Map{"email": "invalid email"},
		})
	})
	e.GET("/empty", func(c echo.Context) error {
		return c.NoContent(http.StatusInternalServerError)
	})
	e.GET("/missing", func(c echo.Context) error {
		return c.NoContent(http.StatusNotFound)
	})

	client, _ := newTestClient(t, e, &fakeTokens{})
	ctx := context.Background()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantMsg    string
	}{
		{name: "message shape", path: "/message", wantStatus: http.StatusBadRequest, wantMsg: "mauvaise requete"},
		{name: "error shape", path: "/error", wantStatus: http.StatusConflict, wantMsg: "deja inscrit"},
		{name: "no body falls back to status text", path: "/empty", wantStatus: http.StatusInternalServerError, wantMsg: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Get(ctx, tt.path, nil, nil)
			var apiErr *core.APIError
			if assert.ErrorAs(t, err, &apiErr) {
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				assert.Equal(t, tt.wantMsg, apiErr.Message)
			}
		})
	}

	t.Run("field errors kept", func(t *testing.T) {
		err := client.Get(ctx, "/fields", nil, nil)
		var apiErr *core.APIError
		if assert.ErrorAs(t, err, &apiErr) {
			assert.True(t, core.IsUnprocessable(err))
			assert.Equal(t, "invalid email", apiErr.Fields["email"])
		}
	})

	t.Run("404 unwraps to not found", func(t *testing.T) {
		err := client.Get(ctx, "/missing", nil, nil)
		assert.True(t, core.IsNotFound(err))
	})
}

func TestClient_networkFailure(t *testing.T) {
	tokens := &fakeTokens{token: validToken(t)}
	var unauthorized int
	client := NewClient(
		core.ClientConfig{BaseURL: "http://127.0.0.1:1", RequestTimeout: time.Second},
		tokens,
		logsvc.NewStdLogger(log.New(io.Discard, "", 0)),
		func() { unauthorized++ },
	)

	err := client.Get(context.Background(), "/courses", nil, nil)
	assert.Error(t, err)
	// no response means no session action
	assert.Equal(t, 0, tokens.logouts)
	assert.Equal(t, 0, unauthorized)
	assert.NotEmpty(t, tokens.token)
}
