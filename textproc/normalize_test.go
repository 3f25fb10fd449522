package textproc

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"strips tags", "<p>Art. 1º</p>", "Art. 1º"},
		{"collapses whitespace", "Esta  Lei\n\n institui", "Esta Lei institui"},
		{"non-breaking space", "Art. 1º", "Art. 1º"},
		{"curly quotes", "a “lei”", `a "lei"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractCitations(t *testing.T) {
	citations := ExtractCitations("Conforme o Art. 5º e o § 2º do Art. 12 desta Lei.")

	var articles, paragraphs int
	for _, c := range citations {
		switch c.Type {
		case "article":
			articles++
		case "paragraph":
			paragraphs++
		}
	}
	if articles != 2 {
		t.Errorf("expected 2 article citations, got %d", articles)
	}
	if paragraphs != 1 {
		t.Errorf("expected 1 paragraph citation, got %d", paragraphs)
	}
}

func TestExtractYear(t *testing.T) {
	if got := ExtractYear("leis de 2023 sobre saúde"); got != 2023 {
		t.Errorf("ExtractYear = %d, want 2023", got)
	}
	if got := ExtractYear("lei de imposto de renda"); got != 0 {
		t.Errorf("ExtractYear = %d, want 0", got)
	}
}

func TestExtractLawNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fale sobre a lei nº 14133", "14133"},
		{"lei 8080 do SUS", "8080"},
		{"o que é uma PEC", ""},
	}
	for _, tt := range tests {
		if got := ExtractLawNumber(tt.in); got != tt.want {
			t.Errorf("ExtractLawNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
