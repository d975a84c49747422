package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"hotelbox/pkg/model"
)

const (
	DefaultHotelLimit = 9
	DefaultHotelPage  = 1
	hotelDateLayout   = "2006-01-02"
)

type HotelClient struct {
	httpClient *HttpClient
	now        func() time.Time
}

func NewHotelClient(httpClient *HttpClient) *HotelClient {
	return &HotelClient{httpClient: httpClient, now: time.Now}
}

// HotelDefaults fills the search window with today and tomorrow and the
// first page of nine hotels.
func HotelDefaults(p model.HotelSearchParams, now time.Time) model.HotelSearchParams {
	if p.Limit <= 0 {
		p.Limit = DefaultHotelLimit
	}
	if p.Page <= 0 {
		p.Page = DefaultHotelPage
	}
	if p.From == "" {
		p.From = now.Format(hotelDateLayout)
	}
	if p.To == "" {
		p.To = now.AddDate(0, 0, 1).Format(hotelDateLayout)
	}
	return p
}

func (c *HotelClient) Search(ctx context.Context, params model.HotelSearchParams) ([]model.Hotel, *model.Pagination, error) {
	p := HotelDefaults(params, c.now())

	query := url.Values{}
	query.Set("limit", strconv.Itoa(p.Limit))
	query.Set("page", strconv.Itoa(p.Page))
	query.Set("from", p.From)
	query.Set("to", p.To)
	if p.Search != "" {
		query.Set("search", p.Search)
	}

	env, err := Decode[[]model.Hotel](c.httpClient.GET(ctx, "/hotels/agent", query))
	if err != nil {
		return nil, nil, err
	}
	if env.Data == nil {
		env.Data = []model.Hotel{}
	}
	return env.Data, env.Pagination, nil
}
