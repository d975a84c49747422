// Package format renders amounts, dates and links for portal responses.
package format

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	CurrencyIDR = "IDR"

	DateLayout    = "2 January 2006"
	ISODateLayout = "2006-01-02"
)

var (
	idPrinter = message.NewPrinter(language.Indonesian)
	enPrinter = message.NewPrinter(language.AmericanEnglish)
)

// Currency formats rupiah as "Rp. 1.234.567" without decimals. Other
// currencies use US grouping with two decimals after their code.
func Currency(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == CurrencyIDR {
		return "Rp. " + idPrinter.Sprintf("%d", int64(math.Round(amount)))
	}
	return code + " " + enPrinter.Sprintf("%.2f", amount)
}

func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DateString reformats a backend date (ISO date or RFC 3339). Values that
// cannot be parsed are returned unchanged.
func DateString(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return Date(t)
}

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(ISODateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// URL prefixes http:// when the link has no scheme.
func URL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return "http://" + s
}

// Nights counts billable nights between two dates, at least one.
func Nights(checkIn, checkOut time.Time) int {
	days := checkOut.Sub(checkIn).Hours() / 24
	return max(1, int(math.Ceil(days)))
}
