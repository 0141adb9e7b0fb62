package normalize

import (
	"reflect"
	"testing"
)

func TestExperienceYears(t *testing.T) {
	tests := []struct {
		exp  string
		want []int
	}{
		{exp: "Нет опыта", want: []int{0, 1}},
		{exp: "", want: []int{0, 1}},
		{exp: "Более 6 лет", want: []int{6, 10}},
		{exp: "От 1 года до 3 лет", want: []int{1, 3}},
		{exp: "От 3 до 6 лет", want: []int{3, 6}},
		{exp: "от 10 до 15 лет", want: []int{10, 15}},
		{exp: "что-то невнятное", want: []int{0, 10}},
		{exp: "более лет", want: []int{0, 10}},
		{exp: "от года до двух", want: []int{0, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.exp, func(t *testing.T) {
			got := ExperienceYears(tt.exp)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExperienceYears(%q) = %v, want %v", tt.exp, got, tt.want)
			}
		})
	}
}

func TestDigitsIn(t *testing.T) {
	if n, ok := digitsIn("от 1 года"); !ok || n != 1 {
		t.Fatalf("expected 1, got %d (ok=%v)", n, ok)
	}
	if _, ok := digitsIn("без цифр"); ok {
		t.Fatal("expected no digits")
	}
}
