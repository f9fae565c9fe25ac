package pages

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrPriceFormat is returned when displayed price text is not "$D.CC".
var ErrPriceFormat = errors.New("unrecognized price format")

var pricePattern = regexp.MustCompile(`^\$(\d{1,9})\.(\d{2})$`)

// ParsePrice parses storefront price text such as "$29.99".
func ParsePrice(text string) (float64, error) {
	cents, err := parseCents(strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	return float64(cents) / 100, nil
}

// ParsePrices parses every entry, failing on the first malformed one.
func ParsePrices(texts []string) ([]float64, error) {
	out := make([]float64, 0, len(texts))
	for i, t := range texts {
		p, err := ParsePrice(t)
		if err != nil {
			return nil, fmt.Errorf("price %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ParseLabeledPrice parses summary lines such as "Item total: $55.97".
func ParseLabeledPrice(text string) (float64, error) {
	_, amount, ok := strings.Cut(text, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q has no label", ErrPriceFormat, text)
	}
	return ParsePrice(amount)
}

// FormatPrice renders cents the way the storefront displays them.
func FormatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func parseCents(text string) (int64, error) {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrPriceFormat, text)
	}
	dollars, _ := strconv.ParseInt(m[1], 10, 64)
	cents, _ := strconv.ParseInt(m[2], 10, 64)
	return dollars*100 + cents, nil
}
