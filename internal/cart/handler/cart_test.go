package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"hotelbox/internal/cart/service"
	"hotelbox/pkg/action"
	"hotelbox/pkg/kafka"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/session"
	"hotelbox/pkg/validation"
)

// mockCartService implements service.CartService with overridable funcs.
type mockCartService struct {
	viewFunc     func(ctx context.Context) (*model.CartSummary, error)
	addGuestFunc func(ctx context.Context, req model.AddGuestRequest) (action.Result, []model.Guest, error)
}

func (m *mockCartService) View(ctx context.Context) (*model.CartSummary, error) {
	return m.viewFunc(ctx)
}

func (m *mockCartService) Guests(context.Context) ([]model.Guest, error) {
	return []model.Guest{}, nil
}

func (m *mockCartService) AddGuest(ctx context.Context, req model.AddGuestRequest) (action.Result, []model.Guest, error) {
	return m.addGuestFunc(ctx, req)
}

func (m *mockCartService) RenameGuest(context.Context, string, model.RenameGuestRequest) ([]model.Guest, error) {
	return nil, nil
}

func (m *mockCartService) RemoveGuest(context.Context, string) ([]model.Guest, error) {
	return nil, nil
}

func (m *mockCartService) SaveGuests(context.Context) (action.Result, []model.Guest, error) {
	return action.Ok("saved"), nil, nil
}

func (m *mockCartService) Candidates(context.Context, string) ([]model.User, error) {
	return nil, nil
}

func (m *mockCartService) RemoveItem(context.Context, string) (action.Result, error) {
	return action.Result{}, action.ErrPending
}

func (m *mockCartService) Checkout(context.Context) (action.Result, error) {
	return action.Fail("Failed to checkout. Please try again."), nil
}

func newRouter(svc service.CartService) http.Handler {
	router := httprouter.New()
	NewCartHandler(svc, logger.Discard()).RegisterRoutes(router)

	claims := &session.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
	sess := session.New("s", claims, "t", time.Now().Add(time.Hour), 5, logger.Discard())
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

func TestView(t *testing.T) {
	svc := &mockCartService{viewFunc: func(context.Context) (*model.CartSummary, error) {
		return &model.CartSummary{ID: "cart-1", RoomCount: 2}, nil
	}}

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var body struct {
		Data model.CartSummary `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.ID != "cart-1" || body.Data.RoomCount != 2 {
		t.Errorf("data = %+v", body.Data)
	}
}

func TestAddGuest_DecodesBody(t *testing.T) {
	var got model.AddGuestRequest
	svc := &mockCartService{addGuestFunc: func(_ context.Context, req model.AddGuestRequest) (action.Result, []model.Guest, error) {
		got = req
		return action.Ok("Guest added successfully!"), []model.Guest{{ID: "u-1", No: 1, Name: "Budi"}}, nil
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/guests", strings.NewReader(`{"user_id":"u-1"}`))
	newRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if got.UserID != "u-1" {
		t.Errorf("request = %+v", got)
	}
	if !strings.Contains(w.Body.String(), "Guest added successfully!") {
		t.Errorf("body = %s", w.Body)
	}
}

func TestAddGuest_BadJSON(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/guests", strings.NewReader(`{"user_id":`))
	newRouter(&mockCartService{}).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResultStatuses(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"pending action", http.MethodDelete, "/api/v1/cart/items/abc", http.StatusConflict},
		{"failed result", http.MethodPost, "/api/v1/cart/checkout", http.StatusBadGateway},
		{"successful result", http.MethodPut, "/api/v1/cart/guests", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newRouter(&mockCartService{}).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body)
			}
		})
	}
}

type fakeCartAPI struct{}

func (fakeCartAPI) Get(context.Context) (*model.Cart, error) {
	return &model.Cart{ID: "cart-1", Guest: []string{"Alice", "Bob"}}, nil
}
func (fakeCartAPI) AddGuest(context.Context, model.AddCartGuestRequest) (string, error) {
	return "", nil
}
func (fakeCartAPI) SaveGuests(context.Context, model.SaveGuestsRequest) (string, error) {
	return "", nil
}
func (fakeCartAPI) RemoveItem(context.Context, string) (string, error) { return "", nil }
func (fakeCartAPI) Checkout(context.Context) (string, error) { return "", nil }

type noUsers struct{}

func (noUsers) Users(context.Context, string) ([]model.User, error) { return nil, nil }

func TestUnknownGuestLeavesListUnchanged(t *testing.T) {
	log := logger.Discard()
	svc := service.NewCartService(fakeCartAPI{}, noUsers{}, validation.New("ID"),
		kafka.NewEmitter(nil, "test", "1", log), service.Config{}, log)
	h := newRouter(svc)

	want := []model.Guest{
		{ID: "guest-0", No: 1, Name: "Alice"},
		{ID: "guest-1", No: 2, Name: "Bob"},
	}

	tests := []struct {
		name   string
		method string
		body   string
	}{
		{"delete", http.MethodDelete, ""},
		{"rename", http.MethodPatch, `{"name":"Carol"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/cart/guests/missing", strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body)
			}
			var body struct {
				Data []model.Guest `json:"data"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if len(body.Data) != len(want) {
				t.Fatalf("guests = %+v, want %+v", body.Data, want)
			}
			for i := range want {
				if body.Data[i] != want[i] {
					t.Errorf("guest %d = %+v, want %+v", i, body.Data[i], want[i])
				}
			}
		})
	}
}
