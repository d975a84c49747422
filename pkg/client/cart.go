package client

import (
	"context"
	"encoding/json"
	"net/url"

	"hotelbox/pkg/model"
)

type CartClient struct {
	httpClient *HttpClient
}

func NewCartClient(httpClient *HttpClient) *CartClient {
	return &CartClient{httpClient: httpClient}
}

// Get returns an empty cart when the backend has none for the agent.
func (c *CartClient) Get(ctx context.Context) (*model.Cart, error) {
	env, err := Decode[*model.Cart](c.httpClient.GET(ctx, "/bookings/cart", nil))
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return &model.Cart{Detail: []model.CartDetail{}, Guest: []string{}}, nil
	}
	return env.Data, nil
}

func (c *CartClient) AddGuest(ctx context.Context, req model.AddCartGuestRequest) (string, error) {
	return message(c.httpClient.POST(ctx, "/bookings/cart/guest", req))
}

func (c *CartClient) SaveGuests(ctx context.Context, req model.SaveGuestsRequest) (string, error) {
	return message(c.httpClient.PUT(ctx, "/bookings/cart/guests", req))
}

func (c *CartClient) RemoveItem(ctx context.Context, id string) (string, error) {
	return message(c.httpClient.DELETE(ctx, "/bookings/cart/"+url.PathEscape(id)))
}

func (c *CartClient) Checkout(ctx context.Context) (string, error) {
	return message(c.httpClient.POST(ctx, "/bookings/cart/checkout", nil))
}

func message(resp *Response, err error) (string, error) {
	env, err := Decode[json.RawMessage](resp, err)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
