package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/Qwertymart/cdek/internal/headhunter"
)

const (
	sourceNameHH = "hh.ru"

	notSpecified = "Не указан"

	// defaultLocationRadiusKM is the search radius recorded for every
	// company location until a real geocoding source exists.
	defaultLocationRadiusKM = 50
)

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`опыт[а-я\s]*(\d+)[\s-]*лет`),
	regexp.MustCompile(`от\s*(\d+)\s*лет`),
	regexp.MustCompile(`(\d+)[\s+-]*года?\s*опыт`),
	regexp.MustCompile(`experience[:\s]*(\d+)[\s-]*years?`),
}

// FromHH normalizes a fetched HH.ru vacancy into a Record. Records
// without a description or without any salary bound are reported via
// ErrSkip-wrapped errors and must not be persisted.
func FromHH(v *headhunter.Vacancy, now time.Time) (*Record, error) {
	description := strings.TrimSpace(v.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	compensation := NormalizeSalary(fromHHSalary(v.Salary))
	if compensation.SalaryMin == nil && compensation.SalaryMax == nil {
		return nil, ErrNoSalary
	}

	benefits := ParseBenefits(description)

	companyName := v.Employer.Name
	if companyName == "" {
		companyName = notSpecified
	}
	companyID := CompanyID(companyName)

	city := v.Area.Name
	if city == "" {
		city = notSpecified
	}

	record := &Record{
		Vacancy: Vacancy{
			ExternalID:         v.ID,
			Title:              v.Name,
			Description:        description,
			Requirements:       v.Snippet.Requirement,
			WorkFormat:         DetectWorkFormat(v.Schedule.Name, description),
			EmploymentType:     orDefault(v.Employment.Name, notSpecified),
			Schedule:           orDefault(v.Schedule.Name, notSpecified),
			ExperienceRequired: experienceRequired(description, v.Experience.Name),
			SourceURL:          v.AlternateURL,
			SourceName:         sourceNameHH,
			PublicationDate:    publicationDate(v.PublishedAt),
			IsRelevant:         true,
			CompanyID:          companyID,
			CompensationID:     compensation.ID,
			BenefitsID:         benefits.ID,
			CreatedAt:          now.UTC().Format(time.RFC3339),
			SimilarTitles:      []string{},
			ExcludeKeywords:    []string{},
		},
		Company: Company{
			ID:               companyID,
			Name:             companyName,
			NameVariations:   []string{NormalizeCompanyName(companyName)},
			Industry:         notSpecified,
			Size:             notSpecified,
			IsForeign:        false,
			LocationCity:     city,
			LocationRadiusKM: defaultLocationRadiusKM,
		},
		Compensation: compensation,
		Benefits:     benefits,
	}

	return record, nil
}

func fromHHSalary(s *headhunter.Salary) *Salary {
	if s == nil {
		return nil
	}
	return &Salary{From: s.From, To: s.To, Currency: s.Currency, Gross: s.Gross}
}

// experienceRequired prefers the structured experience field and falls
// back to scanning the description.
func experienceRequired(description, experience string) string {
	if strings.TrimSpace(experience) != "" {
		return experience
	}

	desc := strings.ToLower(description)
	for _, pattern := range experiencePatterns {
		if match := pattern.FindStringSubmatch(desc); match != nil {
			return "От " + match[1] + " лет"
		}
	}

	return notSpecified
}

func publicationDate(publishedAt string) string {
	if publishedAt == "" {
		return ""
	}
	ts, err := time.Parse("2006-01-02T15:04:05-0700", publishedAt)
	if err != nil {
		// HH historically used a numeric zone offset; accept RFC3339 too.
		ts, err = time.Parse(time.RFC3339, publishedAt)
		if err != nil {
			return ""
		}
	}
	return ts.Format("2006-01-02")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
