package client

import (
	"context"
	"net/url"
	"strconv"

	"hotelbox/pkg/model"
)

type NotificationClient struct {
	httpClient *HttpClient
}

func NewNotificationClient(httpClient *HttpClient) *NotificationClient {
	return &NotificationClient{httpClient: httpClient}
}

func (c *NotificationClient) List(ctx context.Context, page, limit int) ([]model.Notification, *model.Pagination, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	env, err := Decode[[]model.Notification](c.httpClient.GET(ctx, "/notifications", query))
	if err != nil {
		return nil, nil, err
	}
	if env.Data == nil {
		env.Data = []model.Notification{}
	}
	return env.Data, env.Pagination, nil
}

func (c *NotificationClient) UpdateSetting(ctx context.Context, setting model.NotificationSetting) (string, error) {
	return message(c.httpClient.PUT(ctx, "/notifications/settings", setting))
}
