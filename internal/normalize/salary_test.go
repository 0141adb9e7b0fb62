package normalize

import (
	"testing"
)

func TestNormalizeSalaryBothBounds(t *testing.T) {
	from, to := 100000, 200000
	comp := NormalizeSalary(&Salary{From: &from, To: &to, Currency: "RUR", Gross: true})

	if comp.SalaryAvg == nil || *comp.SalaryAvg != 150000 {
		t.Fatalf("expected avg 150000, got %v", comp.SalaryAvg)
	}
	if comp.SalaryMedian == nil || *comp.SalaryMedian != 150000 {
		t.Fatalf("expected median 150000, got %v", comp.SalaryMedian)
	}
	if comp.SalaryNet == nil || *comp.SalaryNet {
		t.Fatalf("gross salary must yield salary_net=false, got %v", comp.SalaryNet)
	}
	if comp.PaymentFrequency != "monthly" || comp.PaymentType != "fixed" {
		t.Fatalf("unexpected payment fields: %q %q", comp.PaymentFrequency, comp.PaymentType)
	}
}

func TestNormalizeSalarySingleBound(t *testing.T) {
	tests := []struct {
		name string
		from *int
		to   *int
		want int
	}{
		{name: "only lower bound", from: intPtr(100000), want: 115000},
		{name: "only upper bound", to: intPtr(200000), want: 170000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := NormalizeSalary(&Salary{From: tt.from, To: tt.to, Currency: "RUR"})
			if comp.SalaryAvg == nil || *comp.SalaryAvg != tt.want {
				t.Fatalf("expected avg %d, got %v", tt.want, comp.SalaryAvg)
			}
		})
	}
}

func TestNormalizeSalaryAbsent(t *testing.T) {
	for _, s := range []*Salary{nil, {}} {
		comp := NormalizeSalary(s)
		if comp.ID != NoSalaryID() {
			t.Fatalf("expected sentinel id %s, got %s", NoSalaryID(), comp.ID)
		}
		if comp.SalaryMin != nil || comp.SalaryMax != nil || comp.SalaryAvg != nil {
			t.Fatalf("sentinel compensation must carry no bounds: %+v", comp)
		}
	}
}

func TestNormalizeSalaryDefaultCurrency(t *testing.T) {
	from := 50000
	comp := NormalizeSalary(&Salary{From: &from})
	if comp.Currency == nil || *comp.Currency != "RUR" {
		t.Fatalf("expected default currency RUR, got %v", comp.Currency)
	}
}

func TestCompensationIDOrderSensitive(t *testing.T) {
	a, b := 50000, 70000

	forward := CompensationID(&a, &b, "RUR")
	reversed := CompensationID(&b, &a, "RUR")
	if forward == reversed {
		t.Fatalf("swapped bounds must produce different ids, both are %s", forward)
	}

	if forward != CompensationID(&a, &b, "RUR") {
		t.Fatal("same inputs must produce the same id")
	}
}

func TestCompensationIDAbsentValues(t *testing.T) {
	from := 50000

	withTo := CompensationID(&from, &from, "RUR")
	withoutTo := CompensationID(&from, nil, "RUR")
	if withTo == withoutTo {
		t.Fatal("absent upper bound must not collide with a present one")
	}

	if CompensationID(&from, nil, "") == CompensationID(&from, nil, "RUR") {
		t.Fatal("absent currency must not collide with RUR")
	}
}
