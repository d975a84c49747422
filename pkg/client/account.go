package client

import (
	"context"
	"net/url"

	"hotelbox/pkg/model"
)

type AccountClient struct {
	httpClient *HttpClient
}

func NewAccountClient(httpClient *HttpClient) *AccountClient {
	return &AccountClient{httpClient: httpClient}
}

func (c *AccountClient) Profile(ctx context.Context) (*model.AccountProfile, error) {
	env, err := Decode[model.AccountProfile](c.httpClient.GET(ctx, "/profile", nil))
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Users lists the accounts an agent can add as guests.
func (c *AccountClient) Users(ctx context.Context, search string) ([]model.User, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": []string{search}}
	}
	env, err := Decode[[]model.User](c.httpClient.GET(ctx, "/users", query))
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []model.User{}, nil
	}
	return env.Data, nil
}

func (c *AccountClient) BookingOptions(ctx context.Context) ([]model.BookingOption, error) {
	env, err := Decode[[]model.BookingOption](c.httpClient.GET(ctx, "/bookings/options", nil))
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []model.BookingOption{}, nil
	}
	return env.Data, nil
}
