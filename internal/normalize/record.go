// Package normalize converts raw job-board vacancy data into the
// canonical relational shape: a vacancy row plus its derived company,
// compensation and benefits sub-records with content-derived ids.
package normalize

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Record is one fully normalized vacancy with its sub-records. The JSON
// field names are the wire contract used by the queue messages.
type Record struct {
	Vacancy      Vacancy      `json:"vacancies"`
	Company      Company      `json:"companies"`
	Compensation Compensation `json:"compensations"`
	Benefits     Benefits     `json:"benefits"`
}

type Vacancy struct {
	ExternalID         string   `json:"external_id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Requirements       string   `json:"requirements"`
	WorkFormat         string   `json:"work_format"`
	EmploymentType     string   `json:"employment_type"`
	Schedule           string   `json:"schedule"`
	ExperienceRequired string   `json:"experience_required"`
	ExperienceYears    []int    `json:"experience_years,omitempty"`
	SourceURL          string   `json:"source_url"`
	SourceName         string   `json:"source_name"`
	PublicationDate    string   `json:"publication_date"`
	IsRelevant         bool     `json:"is_relevant"`
	CompanyID          string   `json:"company_id"`
	CompensationID     string   `json:"compensation_id"`
	BenefitsID         string   `json:"benefits_id"`
	CreatedAt          string   `json:"created_at"`
	SimilarTitles      []string `json:"similar_titles"`
	ExcludeKeywords    []string `json:"exclude_keywords"`
}

type Company struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	NameVariations   []string `json:"name_variations"`
	Industry         string   `json:"industry"`
	Size             string   `json:"size"`
	IsForeign        bool     `json:"is_foreign"`
	LocationCity     string   `json:"location_city"`
	LocationRadiusKM int      `json:"location_radius_km"`
}

type Compensation struct {
	ID               string  `json:"id"`
	SalaryMin        *int    `json:"salary_min"`
	SalaryMax        *int    `json:"salary_max"`
	SalaryMedian     *int    `json:"salary_median"`
	SalaryAvg        *int    `json:"salary_avg"`
	SalaryNet        *bool   `json:"salary_net"`
	Currency         *string `json:"currency"`
	Bonuses          string  `json:"bonuses"`
	PaymentFrequency string  `json:"payment_frequency"`
	PaymentType      string  `json:"payment_type"`
}

type Benefits struct {
	ID                 string   `json:"id"`
	HealthInsurance    bool     `json:"health_insurance"`
	FuelCompensation   bool     `json:"fuel_compensation"`
	MobileCompensation bool     `json:"mobile_compensation"`
	FreeMeals          bool     `json:"free_meals"`
	OtherBenefits      []string `json:"other_benefits"`
	NewColumn          bool     `json:"new_column"`
}

// ErrSkip marks records that are valid but carry too little information
// for analytics. Skips are not failures: the record is silently dropped.
var ErrSkip = errors.New("record skipped")

var (
	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrSkip)
	ErrNoSalary         = fmt.Errorf("%w: no salary bounds", ErrSkip)
)

// CheckSkip reports whether the record should be excluded from
// persistence. The returned error always wraps ErrSkip.
func CheckSkip(rec *Record) error {
	if strings.TrimSpace(rec.Vacancy.Description) == "" {
		return ErrEmptyDescription
	}
	if rec.Compensation.SalaryMin == nil && rec.Compensation.SalaryMax == nil {
		return ErrNoSalary
	}
	return nil
}

// Validate checks the keys required for a consistent write across the
// four tables. A failing record aborts its whole message.
func Validate(rec *Record) error {
	if strings.TrimSpace(rec.Vacancy.ExternalID) == "" {
		return errors.New("missing vacancy external_id")
	}
	if strings.TrimSpace(rec.Company.ID) == "" {
		return errors.New("missing company id")
	}
	if strings.TrimSpace(rec.Benefits.ID) == "" {
		return errors.New("missing benefits id")
	}
	return nil
}

// contentID derives a stable identifier from normalized content. The md5
// hex format matches the ids already present in the vacancies store.
func contentID(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}
