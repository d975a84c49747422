package model

// Cart mirrors GET /bookings/cart.
type Cart struct {
	ID         string       `json:"id"`
	Detail     []CartDetail `json:"detail"`
	GrandTotal float64      `json:"grand_total"`
	Guest      []string     `json:"guest"`
}

type CartDetail struct {
	ID                   string           `json:"id"`
	Additional           []CartAdditional `json:"additional"`
	CheckInDate          string           `json:"check_in_date"`
	CheckOutDate         string           `json:"check_out_date"`
	Guest                string           `json:"guest"`
	HotelName            string           `json:"hotel_name"`
	HotelRating          int              `json:"hotel_rating"`
	IsBreakfast          bool             `json:"is_breakfast"`
	Price                float64          `json:"price"`
	Promo                *CartPromo       `json:"promo,omitempty"`
	RoomTypeName         string           `json:"room_type_name"`
	TotalAdditionalPrice float64          `json:"total_additional_price"`
	TotalPrice           float64          `json:"total_price"`
}

type CartAdditional struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CartPromo struct {
	Benefit         string  `json:"benefit"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	FixedPrice      float64 `json:"fixed_price"`
	Type            string  `json:"type"`
	UpgradedToID    string  `json:"upgraded_to_id,omitempty"`
}

type CartLine struct {
	CartDetail
	Nights            int     `json:"nights"`
	Discount          float64 `json:"discount"`
	FormattedTotal    string  `json:"formatted_total"`
	FormattedCheckIn  string  `json:"formatted_check_in"`
	FormattedCheckOut string  `json:"formatted_check_out"`
}

// CartSummary is the aggregated cart served to the portal.
type CartSummary struct {
	ID                   string     `json:"id"`
	Lines                []CartLine `json:"lines"`
	Guests               []Guest    `json:"guests"`
	RoomCount            int        `json:"room_count"`
	GrandTotal           float64    `json:"grand_total"`
	TotalDiscount        float64    `json:"total_discount"`
	DiscountedGrandTotal float64    `json:"discounted_grand_total"`
	Formatted            struct {
		GrandTotal           string `json:"grand_total"`
		TotalDiscount        string `json:"total_discount"`
		DiscountedGrandTotal string `json:"discounted_grand_total"`
	} `json:"formatted"`
}

type SaveGuestsRequest struct {
	CartID string   `json:"cart_id"`
	Guests []string `json:"guests"`
}

type AddCartGuestRequest struct {
	CartID string `json:"cart_id"`
	Guest  string `json:"guest"`
}
