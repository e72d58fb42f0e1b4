// Package label generates the decorative label graphics: a pseudo-barcode
// and a pseudo-QR module grid. Neither is a scannable encoding; both are
// pure functions of their input.
package label

// DefaultBarcodeValue is used when no value is supplied.
const DefaultBarcodeValue = "PORTFOLIO-2025"

// Bar is one vertical stripe of a pseudo-barcode.
type Bar struct {
	Width int  `json:"width"` // 1..5
	Black bool `json:"black"`
}

var guard = []Bar{{Width: 2, Black: true}, {Width: 1}, {Width: 2, Black: true}}

// Barcode maps each character of value to a bar of width code%5+1,
// alternating black and white from black, framed by guard bars on both ends.
func Barcode(value string) []Bar {
	bars := make([]Bar, 0, len(value)+2*len(guard))
	bars = append(bars, guard...)
	black := true
	for _, r := range value {
		bars = append(bars, Bar{Width: int(r%5) + 1, Black: black})
		black = !black
	}
	return append(bars, guard...)
}

// TotalWidth sums the widths of bars in modules.
func TotalWidth(bars []Bar) int {
	total := 0
	for _, b := range bars {
		total += b.Width
	}
	return total
}
