package api

import (
	"context"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	apperrors "github.com/turnohq/turno-admin/internal/errors"
)

// authResponse is the payload of /auth/login and /auth/register.
type authResponse struct {
	User         *domainauth.User `json:"user"`
	Token        string           `json:"token"`
	RefreshToken string           `json:"refreshToken"`
}

func (r authResponse) validate() error {
	if r.Token == "" {
		return apperrors.Internal("auth response missing token")
	}
	if r.User == nil {
		return apperrors.Internal("auth response missing user")
	}
	return nil
}

func (r authResponse) tokenPair() domainauth.TokenPair {
	return domainauth.TokenPair{
		AccessToken:  r.Token,
		RefreshToken: r.RefreshToken,
	}
}

// Login exchanges credentials for a token pair and the authenticated user.
func (c *Client) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.TokenPair, *domainauth.User, error) {
	payload := struct {
		RUT      string `json:"rut"`
		Password string `json:"password"`
	}{RUT: creds.RUT, Password: creds.Password}

	var resp authResponse
	if err := c.Post(ctx, "/auth/login", payload, &resp); err != nil {
		return domainauth.TokenPair{}, nil, err
	}
	if err := resp.validate(); err != nil {
		return domainauth.TokenPair{}, nil, err
	}
	return resp.tokenPair(), resp.User, nil
}

// Register creates an account. On success the backend answers exactly like Login.
func (c *Client) Register(ctx context.Context, reg domainauth.Registration) (domainauth.TokenPair, *domainauth.User, error) {
	var resp authResponse
	if err := c.Post(ctx, "/auth/register", reg, &resp); err != nil {
		return domainauth.TokenPair{}, nil, err
	}
	if err := resp.validate(); err != nil {
		return domainauth.TokenPair{}, nil, err
	}
	return resp.tokenPair(), resp.User, nil
}

// Profile fetches the current user for the attached bearer token.
func (c *Client) Profile(ctx context.Context) (*domainauth.User, error) {
	var user domainauth.User
	if err := c.Get(ctx, "/users/profile", &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, apperrors.Internal("profile response missing user id")
	}
	return &user, nil
}
