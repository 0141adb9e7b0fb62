package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/Qwertymart/cdek/internal/headhunter"
)

func hhVacancy() *headhunter.Vacancy {
	from, to := 100000, 200000
	v := &headhunter.Vacancy{
		ID:           "12345",
		Name:         "Водитель-курьер",
		Description:  "Доставка посылок. Предлагаем ДМС и компенсацию ГСМ.",
		Salary:       &headhunter.Salary{From: &from, To: &to, Currency: "RUR", Gross: true},
		PublishedAt:  "2026-08-20T10:30:00+0300",
		AlternateURL: "https://hh.ru/vacancy/12345",
	}
	v.Employer.Name = "ООО СДЭК"
	v.Area.Name = "Новосибирск"
	v.Experience.Name = "От 1 года до 3 лет"
	v.Schedule.Name = "Полный день"
	v.Employment.Name = "Полная занятость"
	v.Snippet.Requirement = "Водительские права категории B"
	return v
}

func TestFromHH(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	rec, err := FromHH(hhVacancy(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Vacancy.ExternalID != "12345" {
		t.Fatalf("unexpected external id: %s", rec.Vacancy.ExternalID)
	}
	if rec.Vacancy.SourceName != "hh.ru" {
		t.Fatalf("unexpected source name: %s", rec.Vacancy.SourceName)
	}
	if rec.Vacancy.PublicationDate != "2026-08-20" {
		t.Fatalf("unexpected publication date: %s", rec.Vacancy.PublicationDate)
	}
	if rec.Vacancy.CreatedAt != "2026-08-27T12:00:00Z" {
		t.Fatalf("unexpected created_at: %s", rec.Vacancy.CreatedAt)
	}

	if rec.Company.ID != CompanyID("СДЭК") {
		t.Fatal("company id must ignore the legal form")
	}
	if rec.Company.LocationCity != "Новосибирск" {
		t.Fatalf("unexpected city: %s", rec.Company.LocationCity)
	}

	if rec.Compensation.SalaryAvg == nil || *rec.Compensation.SalaryAvg != 150000 {
		t.Fatalf("unexpected avg: %v", rec.Compensation.SalaryAvg)
	}
	if rec.Vacancy.CompensationID != rec.Compensation.ID {
		t.Fatal("vacancy must reference its compensation id")
	}

	if !rec.Benefits.HealthInsurance || !rec.Benefits.FuelCompensation {
		t.Fatalf("benefits not extracted from description: %+v", rec.Benefits)
	}
	if rec.Vacancy.BenefitsID != rec.Benefits.ID {
		t.Fatal("vacancy must reference its benefits id")
	}

	if rec.Vacancy.ExperienceRequired != "От 1 года до 3 лет" {
		t.Fatalf("unexpected experience: %s", rec.Vacancy.ExperienceRequired)
	}
}

func TestFromHHSkips(t *testing.T) {
	now := time.Now()

	empty := hhVacancy()
	empty.Description = "   "
	if _, err := FromHH(empty, now); !errors.Is(err, ErrSkip) || !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected empty description skip, got %v", err)
	}

	noSalary := hhVacancy()
	noSalary.Salary = nil
	if _, err := FromHH(noSalary, now); !errors.Is(err, ErrNoSalary) {
		t.Fatalf("expected no salary skip, got %v", err)
	}
}

func TestFromHHDefaults(t *testing.T) {
	v := hhVacancy()
	v.Employer.Name = ""
	v.Area.Name = ""
	v.Experience.Name = ""
	v.Employment.Name = ""

	rec, err := FromHH(v, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Company.Name != "Не указан" || rec.Company.LocationCity != "Не указан" {
		t.Fatalf("expected placeholder company fields, got %+v", rec.Company)
	}
	if rec.Vacancy.EmploymentType != "Не указан" {
		t.Fatalf("expected placeholder employment, got %s", rec.Vacancy.EmploymentType)
	}
}

func TestExperienceRequiredFromDescription(t *testing.T) {
	got := experienceRequired("требуется опыт работы 3 лет в логистике", "")
	if got != "От 3 лет" {
		t.Fatalf("expected extraction from description, got %q", got)
	}

	if got := experienceRequired("никаких цифр", ""); got != "Не указан" {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestPublicationDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2026-08-20T10:30:00+0300", want: "2026-08-20"},
		{in: "2026-08-20T10:30:00+03:00", want: "2026-08-20"},
		{in: "garbage", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := publicationDate(tt.in); got != tt.want {
			t.Fatalf("publicationDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
