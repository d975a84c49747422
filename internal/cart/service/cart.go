package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"hotelbox/internal/cart/guestlist"
	carterrors "hotelbox/internal/cart/errors"
	"hotelbox/pkg/action"
	"hotelbox/pkg/client"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/format"
	"hotelbox/pkg/kafka"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/sanitizer"
	"hotelbox/pkg/selection"
	"hotelbox/pkg/session"
	"hotelbox/pkg/validation"
)

const (
	MsgGuestAdded      = "Guest added successfully!"
	MsgGuestAddFailed  = "Failed to add guest. Please try again."
	MsgGuestsSaved     = "Contact details saved successfully"
	MsgGuestsFailed    = "Failed to save contact details. Please try again."
	MsgItemRemoved     = "Reservation removed from cart"
	MsgItemFailed      = "Failed to remove reservation. Please try again."
	MsgCheckedOut      = "Checkout completed successfully"
	MsgCheckoutFailed  = "Failed to checkout. Please try again."
	DefaultCurrency    = format.CurrencyIDR
	sessionStateKey    = "cart"
	actionAddGuest     = "cart:guest:add"
	actionSaveGuests   = "cart:guests:save"
	actionCheckout     = "cart:checkout"
	actionRemovePrefix = "cart:item:"
)

// CartAPI is the slice of the upstream cart client this service needs.
type CartAPI interface {
	Get(ctx context.Context) (*model.Cart, error)
	AddGuest(ctx context.Context, req model.AddCartGuestRequest) (string, error)
	SaveGuests(ctx context.Context, req model.SaveGuestsRequest) (string, error)
	RemoveItem(ctx context.Context, id string) (string, error)
	Checkout(ctx context.Context) (string, error)
}

type UsersAPI interface {
	Users(ctx context.Context, search string) ([]model.User, error)
}

type CartService interface {
	View(ctx context.Context) (*model.CartSummary, error)
	Guests(ctx context.Context) ([]model.Guest, error)
	AddGuest(ctx context.Context, req model.AddGuestRequest) (action.Result, []model.Guest, error)
	RenameGuest(ctx context.Context, id string, req model.RenameGuestRequest) ([]model.Guest, error)
	RemoveGuest(ctx context.Context, id string) ([]model.Guest, error)
	SaveGuests(ctx context.Context) (action.Result, []model.Guest, error)
	Candidates(ctx context.Context, query string) ([]model.User, error)
	RemoveItem(ctx context.Context, id string) (action.Result, error)
	Checkout(ctx context.Context) (action.Result, error)
}

type Config struct {
	PromoRate float64
}

type cartService struct {
	cart      CartAPI
	users     UsersAPI
	validator *validation.Validator
	events    *kafka.Emitter
	cfg       Config
	log       *logger.Logger
}

func NewCartService(cart CartAPI, users UsersAPI, v *validation.Validator, events *kafka.Emitter, cfg Config, log *logger.Logger) CartService {
	return &cartService{
		cart:      cart,
		users:     users,
		validator: v,
		events:    events,
		cfg:       cfg,
		log:       log,
	}
}

// sessionState is what the cart keeps per session: the guest lists, the
// guest picker and the id of the cart last seen upstream.
type sessionState struct {
	mu     sync.Mutex
	cartID string
	guests *guestlist.Store
	picker *selection.Dialog[model.User, guestAdded]
}

type guestAdded struct {
	result action.Result
	guests []model.Guest
}

func (st *sessionState) current() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cartID
}

func (st *sessionState) remember(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cartID = id
}

func (s *cartService) state(ctx context.Context) (*session.Session, *sessionState, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, nil, err
	}
	v := sess.Value(sessionStateKey, func() any {
		return &sessionState{
			guests: guestlist.NewStore(),
			picker: selection.NewDialog(func(ctx context.Context, u model.User) (guestAdded, error) {
				return s.addGuest(ctx, model.Guest{UserID: u.ID, Name: u.Name})
			}),
		}
	})
	st, ok := v.(*sessionState)
	if !ok {
		return nil, nil, apperrors.Unauthorized("Session expired")
	}
	return sess, st, nil
}

// load fetches the cart and seeds the guest list from it on first sight.
func (s *cartService) load(ctx context.Context, st *sessionState) (*model.Cart, []model.Guest, error) {
	cart, err := s.cart.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	st.remember(cart.ID)
	guests := st.guests.Seed(cart.ID, guestlist.FromNames(cart.Guest))
	return cart, guests, nil
}

// cartID returns the remembered cart, loading it when the session has none.
func (s *cartService) cartID(ctx context.Context, st *sessionState) (string, error) {
	if id := st.current(); id != "" {
		return id, nil
	}
	cart, _, err := s.load(ctx, st)
	if err != nil {
		return "", err
	}
	return cart.ID, nil
}

func (s *cartService) View(ctx context.Context) (*model.CartSummary, error) {
	_, st, err := s.state(ctx)
	if err != nil {
		return nil, err
	}
	cart, guests, err := s.load(ctx, st)
	if err != nil {
		return nil, err
	}
	summary := Summarize(cart, s.cfg.PromoRate)
	summary.Guests = guests
	return summary, nil
}

// Summarize computes the cart aggregates. Each line's discount is the floor
// of its total times the promo rate.
func Summarize(cart *model.Cart, promoRate float64) *model.CartSummary {
	summary := &model.CartSummary{
		ID:        cart.ID,
		Lines:     make([]model.CartLine, 0, len(cart.Detail)),
		Guests:    []model.Guest{},
		RoomCount: len(cart.Detail),
	}

	for _, d := range cart.Detail {
		line := model.CartLine{
			CartDetail:        d,
			Nights:            nights(d.CheckInDate, d.CheckOutDate),
			Discount:          math.Floor(d.TotalPrice * promoRate),
			FormattedTotal:    format.Currency(d.TotalPrice, DefaultCurrency),
			FormattedCheckIn:  format.DateString(d.CheckInDate),
			FormattedCheckOut: format.DateString(d.CheckOutDate),
		}
		summary.GrandTotal += d.TotalPrice
		summary.TotalDiscount += line.Discount
		summary.Lines = append(summary.Lines, line)
	}

	summary.DiscountedGrandTotal = summary.GrandTotal - summary.TotalDiscount
	summary.Formatted.GrandTotal = format.Currency(summary.GrandTotal, DefaultCurrency)
	summary.Formatted.TotalDiscount = format.Currency(summary.TotalDiscount, DefaultCurrency)
	summary.Formatted.DiscountedGrandTotal = format.Currency(summary.DiscountedGrandTotal, DefaultCurrency)
	return summary
}

func nights(checkIn, checkOut string) int {
	in, err := format.ParseDate(checkIn)
	if err != nil {
		return 1
	}
	out, err := format.ParseDate(checkOut)
	if err != nil {
		return 1
	}
	return format.Nights(in, out)
}

func (s *cartService) Guests(ctx context.Context) ([]model.Guest, error) {
	_, st, err := s.state(ctx)
	if err != nil {
		return nil, err
	}
	if id := st.current(); id != "" {
		if list, ok := st.guests.Get(id); ok {
			return list, nil
		}
	}
	_, guests, err := s.load(ctx, st)
	return guests, err
}

func (s *cartService) AddGuest(ctx context.Context, req model.AddGuestRequest) (action.Result, []model.Guest, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return action.Result{}, nil, err
	}

	var (
		out guestAdded
		err error
	)
	switch {
	case req.UserID != "":
		out, err = s.pick(ctx, req.UserID)
	case req.Name != "":
		out, err = s.addGuest(ctx, model.Guest{Name: req.Name})
	default:
		err = validation.Failed(validation.ValidationErrors{
			{Field: "user_id", Message: carterrors.ErrGuestRequired.Error()},
		})
	}
	return out.result, out.guests, err
}

// pick selects userID in the session's guest picker, which adds that user.
func (s *cartService) pick(ctx context.Context, userID string) (guestAdded, error) {
	_, st, err := s.state(ctx)
	if err != nil {
		return guestAdded{}, err
	}
	users, err := s.users.Users(ctx, "")
	if err != nil {
		return guestAdded{}, err
	}
	st.picker.SetCandidates(users)

	out, err := st.picker.SelectID(ctx, userID)
	if errors.Is(err, selection.ErrUnknownCandidate) {
		return guestAdded{}, apperrors.Wrap(carterrors.ErrCandidateNotFound, apperrors.CodeNotFound,
			"Guest candidate not found", http.StatusNotFound).WithDetails(map[string]any{"user_id": userID})
	}
	return out, err
}

// addGuest registers guest upstream and appends it locally once that succeeds.
func (s *cartService) addGuest(ctx context.Context, guest model.Guest) (guestAdded, error) {
	sess, st, err := s.state(ctx)
	if err != nil {
		return guestAdded{}, err
	}
	cartID, err := s.cartID(ctx, st)
	if err != nil {
		return guestAdded{}, err
	}

	var guests []model.Guest
	call := action.Call(func(ctx context.Context) (string, error) {
		return s.cart.AddGuest(ctx, model.AddCartGuestRequest{CartID: cartID, Guest: guest.Name})
	}, MsgGuestAdded)

	res, err := sess.Bridge.RunCommit(ctx, actionAddGuest, call, func(res action.Result) {
		if res.Success {
			guests = st.guests.Update(cartID, func(list []model.Guest) []model.Guest {
				return guestlist.Add(list, guest)
			})
		}
	}, action.WithFallback(MsgGuestAddFailed))
	if err != nil {
		return guestAdded{result: res}, err
	}
	if guests == nil {
		guests, _ = st.guests.Get(cartID)
	}
	return guestAdded{result: res, guests: guests}, nil
}

func (s *cartService) RenameGuest(ctx context.Context, id string, req model.RenameGuestRequest) ([]model.Guest, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(list []model.Guest) []model.Guest {
		return guestlist.Rename(list, id, req.Name)
	})
}

func (s *cartService) RemoveGuest(ctx context.Context, id string) ([]model.Guest, error) {
	return s.mutate(ctx, id, func(list []model.Guest) []model.Guest {
		return guestlist.Remove(list, id)
	})
}

func (s *cartService) mutate(ctx context.Context, id string, fn func([]model.Guest) []model.Guest) ([]model.Guest, error) {
	_, st, err := s.state(ctx)
	if err != nil {
		return nil, err
	}
	cartID, err := s.cartID(ctx, st)
	if err != nil {
		return nil, err
	}

	// unknown ids leave the list as it is
	return st.guests.Update(cartID, func(list []model.Guest) []model.Guest {
		if !guestlist.Contains(list, id) {
			s.log.Debug("Guest not in list", "cart_id", cartID, "guest_id", id)
			return list
		}
		return fn(list)
	}), nil
}

func (s *cartService) SaveGuests(ctx context.Context) (action.Result, []model.Guest, error) {
	sess, st, err := s.state(ctx)
	if err != nil {
		return action.Result{}, nil, err
	}
	cartID, err := s.cartID(ctx, st)
	if err != nil {
		return action.Result{}, nil, err
	}
	guests, _ := st.guests.Get(cartID)

	res, err := sess.Bridge.Run(ctx, actionSaveGuests, action.Call(func(ctx context.Context) (string, error) {
		return s.cart.SaveGuests(ctx, model.SaveGuestsRequest{CartID: cartID, Guests: guestlist.Names(guests)})
	}, MsgGuestsSaved), action.WithFallback(MsgGuestsFailed))
	return res, guests, err
}

func (s *cartService) Candidates(ctx context.Context, query string) ([]model.User, error) {
	_, st, err := s.state(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Users(ctx, "")
	if err != nil {
		return nil, err
	}
	st.picker.SetCandidates(users)
	st.picker.SetQuery(query)
	return st.picker.Visible(), nil
}

func (s *cartService) RemoveItem(ctx context.Context, id string) (action.Result, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return action.Result{}, err
	}
	return sess.Bridge.Run(ctx, actionRemovePrefix+id, action.Call(func(ctx context.Context) (string, error) {
		return s.cart.RemoveItem(ctx, id)
	}, MsgItemRemoved), action.WithFallback(MsgItemFailed))
}

func (s *cartService) Checkout(ctx context.Context) (action.Result, error) {
	sess, st, err := s.state(ctx)
	if err != nil {
		return action.Result{}, err
	}
	cart, _, err := s.load(ctx, st)
	if err != nil {
		return action.Result{}, err
	}
	if len(cart.Detail) == 0 {
		return action.Result{}, apperrors.Wrap(carterrors.ErrEmptyCart, apperrors.CodeInvalidInput, "Cart is empty", http.StatusBadRequest)
	}

	res, err := sess.Bridge.RunCommit(ctx, actionCheckout, action.Call(s.cart.Checkout, MsgCheckedOut), func(res action.Result) {
		if !res.Success {
			return
		}
		st.guests.Delete(cart.ID)
		st.remember("")
		s.events.Emit(ctx, kafka.Event{
			Type: model.EventCartCheckedOut,
			Key:  sess.UserID,
			Payload: model.CartCheckedOutEvent{
				CartID:    cart.ID,
				UserID:    sess.UserID,
				RoomCount: len(cart.Detail),
				Total:     Summarize(cart, s.cfg.PromoRate).DiscountedGrandTotal,
				At:        time.Now().UTC(),
			},
			CorrelationID: client.RequestID(ctx),
		})
	}, action.WithFallback(MsgCheckoutFailed))
	return res, err
}
