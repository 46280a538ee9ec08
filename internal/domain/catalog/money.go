package catalog

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/openstall/marketd/internal/domain"
)

var pricePattern = regexp.MustCompile(`^(\d+)(?:\.(\d{1,2}))?$`)

// ParsePrice converts a decimal price string like "17.50" into cents.
// At most two decimal places are allowed and the value must not be negative.
func ParsePrice(raw string) (int64, error) {
	match := pricePattern.FindStringSubmatch(raw)
	if match == nil {
		return 0, fmt.Errorf("%w: invalid price: %q", domain.ErrValidation, raw)
	}

	dollars, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid price: %q", domain.ErrValidation, raw)
	}

	var cents int64
	if match[2] != "" {
		fraction := match[2]
		if len(fraction) == 1 {
			fraction += "0"
		}
		cents, _ = strconv.ParseInt(fraction, 10, 64)
	}
	return dollars*100 + cents, nil
}

// FormatPrice renders cents as a decimal price string.
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
