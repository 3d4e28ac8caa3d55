package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var indonesian = message.NewPrinter(language.Indonesian)

// Rupiah formats a display-currency amount with id-ID digit grouping.
// Example: Rupiah(300000) => "Rp 300.000". Display prices are whole
// rupiah values; there are no fractional digits to render.
func Rupiah(amount int64) string {
	return "Rp " + Number(amount)
}

// Number formats a bare integer with id-ID grouping ("300.000").
func Number(n int64) string {
	return indonesian.Sprintf("%d", n)
}

// Date formats time in the short day-first form used across the shop.
func Date(t time.Time) string {
	return t.Format("02-01-2006")
}
