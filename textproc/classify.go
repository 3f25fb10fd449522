package textproc

import "strings"

// CategoryGeral is the fallback label when no keyword matches
const CategoryGeral = "Geral"

// categoryRule maps a label to the keywords that select it. Matching is
// substring based on the folded (lowercase, accent-stripped) text.
type categoryRule struct {
	Label    string
	Keywords []string
}

// categoryRules is evaluated in order; the first matching rule wins.
var categoryRules = []categoryRule{
	{"Educação", []string{"educacao", "escola", "ensino", "universidade", "professor", "estudante", "creche", "alfabetizacao"}},
	{"Saúde", []string{"saude", "hospital", "sus", "medicamento", "vacina", "medico", "enfermagem", "sanitar"}},
	{"Transporte", []string{"transporte", "transito", "rodovia", "ferrovia", "mobilidade urbana", "onibus", "metro", "aeroporto"}},
	{"Economia", []string{"economia", "imposto", "tribut", "orcamento", "fiscal", "credito", "juros", "renda", "inflacao"}},
	{"Segurança", []string{"seguranca", "policia", "crime", "penal", "violencia", "arma", "penitenciar"}},
	{"Meio Ambiente", []string{"meio ambiente", "ambiental", "clima", "desmatamento", "poluicao", "sustentavel", "floresta", "residuos"}},
	{"Trabalho", []string{"trabalho", "emprego", "salario", "trabalhista", "previdencia", "aposentadoria", "sindicato", "clt"}},
}

// Categories returns the closed set of labels, fallback included
func Categories() []string {
	labels := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		labels = append(labels, rule.Label)
	}
	return append(labels, CategoryGeral)
}

// ClassifyCategory assigns exactly one topical label to a document based on
// its title and tags. It is deterministic and side-effect-free: keyword
// substring matching, case and accent insensitive, first match wins in a
// fixed priority order. No match falls back to "Geral".
func ClassifyCategory(title string, tags []string) string {
	haystack := foldText(title)
	for _, tag := range tags {
		haystack += " " + foldText(tag)
	}

	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(haystack, kw) {
				return rule.Label
			}
		}
	}
	return CategoryGeral
}

// accentFolder maps the accented characters that appear in Portuguese
// legislative text to their base letters.
var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "ê", "e", "è", "e",
	"í", "i", "ì", "i", "î", "i",
	"ó", "o", "ô", "o", "õ", "o", "ò", "o",
	"ú", "u", "ü", "u", "ù", "u",
	"ç", "c",
)

func foldText(s string) string {
	return accentFolder.Replace(strings.ToLower(s))
}
