package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	hotelerrors "hotelbox/internal/hotels/errors"
	"hotelbox/pkg/client"
	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/format"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/model"
	"hotelbox/pkg/selection"
	"hotelbox/pkg/session"
)

type HotelsAPI interface {
	Search(ctx context.Context, params model.HotelSearchParams) ([]model.Hotel, *model.Pagination, error)
}

type HotelService interface {
	// Search lists hotels for the agent. promoID marks the chosen promo in
	// each hotel's picker; hotels without it fall back to "No Promo".
	Search(ctx context.Context, params model.HotelSearchParams, promoID string) (*model.HotelPage, error)
}

type hotelService struct {
	hotels HotelsAPI
	now    func() time.Time
	log    *logger.Logger
}

func NewHotelService(hotels HotelsAPI, log *logger.Logger) HotelService {
	return &hotelService{
		hotels: hotels,
		now:    time.Now,
		log:    log,
	}
}

// PromoOptions lists "No Promo" followed by the hotel's promos, with
// exactly one option selected.
func PromoOptions(promos []model.Promo, selectedID string) []model.PromoOption {
	found := false
	if selectedID != "" {
		_, found = selection.Find(promos, selectedID)
	}

	options := make([]model.PromoOption, 0, len(promos)+1)
	options = append(options, model.PromoOption{Label: model.NoPromoLabel, Selected: !found})
	for _, p := range promos {
		options = append(options, model.PromoOption{
			ID:          p.PromoID,
			Label:       p.CodePromo,
			Description: p.Description,
			Selected:    found && p.PromoID == selectedID,
		})
	}
	return options
}

func Card(h model.Hotel, promoID string) model.HotelCard {
	return model.HotelCard{
		Hotel:         h,
		MinPriceLabel: format.Currency(h.MinPrice, format.CurrencyIDR),
		WebsiteURL:    format.URL(h.Website),
		PromoOptions:  PromoOptions(h.Promos, promoID),
	}
}

func (s *hotelService) validateRange(p model.HotelSearchParams) error {
	var from, to time.Time
	var err error
	if p.From != "" {
		if from, err = time.Parse(format.ISODateLayout, p.From); err != nil {
			return fmt.Errorf("%w: from %q", hotelerrors.ErrInvalidDate, p.From)
		}
	}
	if p.To != "" {
		if to, err = time.Parse(format.ISODateLayout, p.To); err != nil {
			return fmt.Errorf("%w: to %q", hotelerrors.ErrInvalidDate, p.To)
		}
	}
	if p.From != "" && p.To != "" && !to.After(from) {
		return hotelerrors.ErrInvalidRange
	}
	return nil
}

func (s *hotelService) Search(ctx context.Context, params model.HotelSearchParams, promoID string) (*model.HotelPage, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	if err := s.validateRange(params); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, err.Error(), http.StatusBadRequest)
	}

	if params.From != "" && params.To == "" {
		from, _ := time.Parse(format.ISODateLayout, params.From)
		params.To = from.AddDate(0, 0, 1).Format(format.ISODateLayout)
	}
	params = client.HotelDefaults(params, s.now())
	hotels, pagination, err := s.hotels.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	cards := make([]model.HotelCard, 0, len(hotels))
	for _, h := range hotels {
		cards = append(cards, Card(h, promoID))
	}
	s.log.Debug("Hotel search completed", "search", params.Search, "from", params.From, "to", params.To, "results", len(cards))
	return &model.HotelPage{Hotels: cards, Pagination: pagination}, nil
}
