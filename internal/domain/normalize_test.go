package domain

import "testing"

func TestNormalizeTerm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Husten  ", want: "Husten"},
		{name: "case preserved", input: "Akute Bronchitis", want: "Akute Bronchitis"},
		{name: "compress multiple spaces", input: "akute   Bronchitis", want: "akute Bronchitis"},
		{name: "tabs become spaces", input: "akute\t\tBronchitis", want: "akute Bronchitis"},
		{name: "decomposed umlaut composed", input: "Müller", want: "Müller"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "eszett kept", input: "Straße", want: "Straße"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeTerm(tt.input); got != tt.want {
				t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	t.Parallel()

	if got := NormalizeLanguage(" DE "); got != "de" {
		t.Errorf("NormalizeLanguage = %q, want de", got)
	}
}

func TestEszett(t *testing.T) {
	t.Parallel()

	if !ContainsEszett("Fußgelenk") {
		t.Error("ContainsEszett(Fußgelenk) = false")
	}
	if ContainsEszett("Fussgelenk") {
		t.Error("ContainsEszett(Fussgelenk) = true")
	}
	if got := TransformEszett("Größe des Fußes"); got != "Grösse des Fusses" {
		t.Errorf("TransformEszett = %q", got)
	}
}

func TestCompositeKey_NormalizesTerm(t *testing.T) {
	t.Parallel()

	a := NewCompositeKey("49727002", "de", " Husten ")
	b := NewCompositeKey("49727002", "de", "Husten")
	if a != b {
		t.Errorf("keys differ: %+v vs %+v", a, b)
	}
	if a.Term != "Husten" {
		t.Errorf("key term = %q, want Husten", a.Term)
	}
}
