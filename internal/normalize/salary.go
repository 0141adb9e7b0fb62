package normalize

import (
	"fmt"
	"math"
)

const (
	// noSalaryKey seeds the sentinel compensation id shared by every
	// vacancy that reports no salary at all.
	noSalaryKey = "no_salary:default"

	// Single-bound estimates: the midpoint is assumed 15% above a lone
	// lower bound and 15% below a lone upper bound.
	lowerBoundFactor = 1.15
	upperBoundFactor = 0.85

	defaultCurrency = "RUR"
)

// Salary is the raw salary object as reported by a job board.
type Salary struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	Currency string `json:"currency"`
	Gross    bool   `json:"gross"`
}

// NoSalaryID returns the sentinel compensation id used when a vacancy
// carries no salary information.
func NoSalaryID() string {
	return contentID(noSalaryKey)
}

// NormalizeSalary converts a raw salary object into a Compensation
// sub-record with a content-derived id. A nil salary yields the shared
// sentinel record so absent-salary vacancies do not grow the table.
func NormalizeSalary(s *Salary) Compensation {
	if s == nil || (s.From == nil && s.To == nil) {
		return Compensation{ID: NoSalaryID()}
	}

	currency := s.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	var avg *int
	switch {
	case s.From != nil && s.To != nil:
		avg = intPtr(int(math.Round(float64(*s.From+*s.To) / 2)))
	case s.From != nil:
		avg = intPtr(int(math.Round(float64(*s.From) * lowerBoundFactor)))
	case s.To != nil:
		avg = intPtr(int(math.Round(float64(*s.To) * upperBoundFactor)))
	}

	net := !s.Gross

	return Compensation{
		ID:               CompensationID(s.From, s.To, currency),
		SalaryMin:        s.From,
		SalaryMax:        s.To,
		SalaryMedian:     avg,
		SalaryAvg:        avg,
		SalaryNet:        &net,
		Currency:         &currency,
		PaymentFrequency: "monthly",
		PaymentType:      "fixed",
	}
}

// CompensationID hashes the salary bounds and currency into a stable,
// order-sensitive id. Absent values hash as "none" so logically
// identical compensations collide across re-ingestion.
func CompensationID(from, to *int, currency string) string {
	return contentID(fmt.Sprintf("%s:%s:%s", intOrNone(from), intOrNone(to), strOrNone(currency)))
}

func intOrNone(v *int) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *v)
}

func strOrNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func intPtr(v int) *int { return &v }
