package normalize

import (
	"fmt"
	"strings"
)

// ParseBenefits extracts benefit flags from the vacancy description by
// case-insensitive keyword matching and derives a content id from the
// flag combination, so identical combinations share one row.
func ParseBenefits(description string) Benefits {
	desc := strings.ToLower(description)

	b := Benefits{
		HealthInsurance:    strings.Contains(desc, "дмс") || strings.Contains(desc, "медицинская страховка"),
		FuelCompensation:   strings.Contains(desc, "гсм") || strings.Contains(desc, "топливо"),
		MobileCompensation: strings.Contains(desc, "связь") && (strings.Contains(desc, "оплата") || strings.Contains(desc, "компенсация")),
		FreeMeals:          strings.Contains(desc, "питание") && (strings.Contains(desc, "оплата") || strings.Contains(desc, "бесплатное")),
		OtherBenefits:      []string{},
	}

	b.ID = BenefitsID(b)
	return b
}

// BenefitsID hashes the four benefit flags into a stable id.
func BenefitsID(b Benefits) string {
	return contentID(fmt.Sprintf("%t:%t:%t:%t",
		b.HealthInsurance, b.FuelCompensation, b.MobileCompensation, b.FreeMeals))
}
