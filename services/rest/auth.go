package rest

import (
	"context"

	"github.com/pkg/errors"

	"github.com/somalms/soma/core/session"
)

// AuthAPI implements session.AuthAPI over the REST boundary.
type AuthAPI struct {
	client *Client
}

var _ session.AuthAPI = (*AuthAPI)(nil)

func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

func (a *AuthAPI) Login(ctx context.Context, creds session.Credentials) (session.Auth, error) {
	var auth session.Auth
	if err := a.client.Post(ctx, "/login", creds, &auth); err != nil {
		return session.Auth{}, err
	}
	if auth.Token == "" || auth.User.ID == 0 {
		return session.Auth{}, errors.New("incomplete login response")
	}
	return auth, nil
}

func (a *AuthAPI) Register(ctx context.Context, acct session.NewAccount) (session.Auth, error) {
	var auth session.Auth
	if err := a.client.Post(ctx, "/register", acct, &auth); err != nil {
		return session.Auth{}, err
	}
	if auth.Token == "" || auth.User.ID == 0 {
		return session.Auth{}, errors.New("incomplete register response")
	}
	return auth, nil
}
