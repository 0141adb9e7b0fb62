package normalize

import "testing"

func TestNormalizeCompanyName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "ООО Рога и Копыта", want: "рога и копыта"},
		{name: "Рога и Копыта", want: "рога и копыта"},
		{name: "АО «СДЭК»", want: "«сдэк»"},
		{name: "ИП Иванов", want: "иванов"},
		{name: "Газпром", want: "газпром"},
		{name: "  ПАО   Сбербанк  ", want: "сбербанк"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCompanyName(tt.name); got != tt.want {
				t.Fatalf("NormalizeCompanyName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestCompanyIDCollapsesLegalForms(t *testing.T) {
	if CompanyID("ООО Альфа") != CompanyID("Альфа") {
		t.Fatal("legal form variants must share one company id")
	}
	if CompanyID("Альфа") == CompanyID("Бета") {
		t.Fatal("different companies must not collide")
	}
}
