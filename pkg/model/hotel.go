package model

type Hotel struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	City       string   `json:"city,omitempty"`
	Rating     int      `json:"rating"`
	Image      string   `json:"image,omitempty"`
	MinPrice   float64  `json:"min_price"`
	Facilities []string `json:"facilities,omitempty"`
	Website    string   `json:"website,omitempty"`
	Promos     []Promo  `json:"promos,omitempty"`
}

type Promo struct {
	PromoID     string `json:"promo_id"`
	CodePromo   string `json:"code_promo"`
	Description string `json:"description"`
}

func (p Promo) CandidateID() string        { return p.PromoID }
func (p Promo) CandidateName() string      { return p.CodePromo }
func (p Promo) CandidateSecondary() string { return p.Description }

type HotelSearchParams struct {
	Search string
	Page   int
	Limit  int
	From   string
	To     string
}

type HotelPage struct {
	Hotels     []HotelCard `json:"hotels"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

const NoPromoLabel = "No Promo"

// PromoOption is one choice of the promo picker. The "No Promo" choice has
// an empty ID.
type PromoOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Selected    bool   `json:"selected"`
}

type HotelCard struct {
	Hotel
	MinPriceLabel string        `json:"min_price_label"`
	WebsiteURL    string        `json:"website_url,omitempty"`
	PromoOptions  []PromoOption `json:"promo_options"`
}
