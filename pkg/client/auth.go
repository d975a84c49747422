package client

import (
	"context"
	"net/http"

	"hotelbox/pkg/model"
)

const RefreshTokenCookie = "refresh_token"

type AuthClient struct {
	httpClient *HttpClient
}

func NewAuthClient(httpClient *HttpClient) *AuthClient {
	return &AuthClient{httpClient: httpClient}
}

// AuthResult carries the tokens and the cookies the backend set, so the
// portal can hand the refresh cookie back to the browser.
type AuthResult struct {
	Tokens  model.AuthTokens
	Message string
	Cookies []*http.Cookie
}

func (c *AuthClient) Login(ctx context.Context, req model.LoginRequest) (*AuthResult, error) {
	resp, err := c.httpClient.POST(ctx, "/login", req)
	return authResult(resp, err)
}

func (c *AuthClient) Refresh(ctx context.Context, cookies []*http.Cookie) (*AuthResult, error) {
	resp, err := c.httpClient.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    "/refresh-token",
		Cookies: cookies,
	})
	return authResult(resp, err)
}

func (c *AuthClient) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	return message(c.httpClient.POST(ctx, "/register", req))
}

func authResult(resp *Response, err error) (*AuthResult, error) {
	env, err := Decode[model.AuthTokens](resp, err)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Tokens:  env.Data,
		Message: env.Message,
		Cookies: resp.Cookies(),
	}, nil
}
