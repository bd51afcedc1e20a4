// internal/service/conversion.go
package service

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/leekchan/accounting"

	"github.com/vanhieuhoaiphu/currency-converter/internal/models"
)

// Derive converts amount priced at base into units priced at target.
// Any NaN, infinite or zero result collapses to 0.
func Derive(basePrice, targetPrice, amount float64) float64 {
	r := (basePrice / targetPrice) * amount
	if r == 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// ParseAmount coerces raw amount text into a number. Blank text is 0;
// text that is not a number yields NaN. Digit separators ("1_000") are
// not numbers.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if strings.ContainsRune(s, '_') {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// ParseFloat still returns ±Inf for out of range input.
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}

// Convert runs the derivation on raw amount text and reports why a zero
// result was produced.
func Convert(basePrice, targetPrice float64, rawAmount string) models.Conversion {
	amount := ParseAmount(rawAmount)
	value := Derive(basePrice, targetPrice, amount)

	status := models.StatusOK
	switch {
	case math.IsNaN(amount), math.IsInf(amount, 0):
		status = models.StatusInvalidAmount
	case value != 0:
	case amount == 0:
		status = models.StatusZeroAmount
	default:
		// Finite non-zero amount but no usable rate: zero or non-finite
		// price ratio, or an overflowing product.
		status = models.StatusDegenerateRate
	}

	return models.Conversion{Value: value, Status: status}
}

// Formatter renders converted amounts for display.
type Formatter struct {
	Precision int
	Thousand  string
	Decimal   string
}

// DefaultFormatter matches en-US number display with up to three
// fraction digits.
func DefaultFormatter() Formatter {
	return Formatter{Precision: 3, Thousand: ",", Decimal: "."}
}

// Format groups thousands and drops trailing fraction zeros.
func (f Formatter) Format(v float64) string {
	s := accounting.FormatNumberFloat64(v, f.Precision, f.Thousand, f.Decimal)
	if f.Precision <= 0 || !strings.Contains(s, f.Decimal) {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, f.Decimal)
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
