package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"hotelbox/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(httpClient *HttpClient) *BookingClient {
	return &BookingClient{httpClient: httpClient}
}

// Cancel returns the backend's confirmation message.
func (c *BookingClient) Cancel(ctx context.Context, id string) (string, error) {
	path := "/bookings/" + url.PathEscape(id) + "/cancel"
	return message(c.httpClient.POST(ctx, path, nil))
}

type Receipt struct {
	BookingID    string
	SubBookingID string
	FileName     string
	ContentType  string
	File         io.Reader
}

func (c *BookingClient) UploadReceipt(ctx context.Context, receipt Receipt) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("booking_id", receipt.BookingID); err != nil {
		return "", fmt.Errorf("failed to write receipt form: %w", err)
	}
	if receipt.SubBookingID != "" {
		if err := mw.WriteField("sub_booking_id", receipt.SubBookingID); err != nil {
			return "", fmt.Errorf("failed to write receipt form: %w", err)
		}
	}
	contentType := receipt.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="receipt"; filename=%q`, receipt.FileName))
	header.Set(HeaderContentType, contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to write receipt form: %w", err)
	}
	if _, err := io.Copy(part, receipt.File); err != nil {
		return "", fmt.Errorf("failed to copy receipt: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to write receipt form: %w", err)
	}

	return message(c.httpClient.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        "/bookings/receipt",
		RawBody:     &buf,
		ContentType: mw.FormDataContentType(),
	}))
}

func (c *BookingClient) History(ctx context.Context, q model.HistoryQuery) ([]model.HistoryRecord, *model.Pagination, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	for _, s := range q.BookingStatus {
		query.Add("booking_status", string(s))
	}
	for _, s := range q.PaymentStatus {
		query.Add("payment_status", string(s))
	}

	env, err := Decode[[]model.HistoryRecord](c.httpClient.GET(ctx, "/bookings/history", query))
	if err != nil {
		return nil, nil, err
	}
	return env.Data, env.Pagination, nil
}
