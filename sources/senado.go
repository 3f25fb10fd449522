package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vozdalei-backend/models"
	"vozdalei-backend/textproc"
)

const senadoSourceName = "Senado Federal"

// SenadoClient talks to the open data API of the Senado Federal. The API
// serves JSON when asked for it, but the field names vary by endpoint
// version, so decoding stays permissive.
type SenadoClient struct {
	httpSource
}

func NewSenadoClient(baseURL string) *SenadoClient {
	return &SenadoClient{httpSource: newHTTPSource(baseURL, 10)}
}

func (c *SenadoClient) Name() string { return "senado" }

type senadoNorma struct {
	Codigo         json.Number `json:"codigo"`
	Descricao      string      `json:"descricao"`
	Titulo         string      `json:"titulo"`
	Nome           string      `json:"nome"`
	Ementa         string      `json:"ementa"`
	Tipo           string      `json:"tipo"`
	SiglaTipo      string      `json:"siglaTipo"`
	Numero         json.Number `json:"numero"`
	Ano            json.Number `json:"ano"`
	DataPublicacao string      `json:"dataPublicacao"`
	Situacao       string      `json:"situacao"`
	URN            string      `json:"urn"`
	URL            string      `json:"url"`
}

type senadoListResponse struct {
	Normas []senadoNorma `json:"normas"`
	Dados  []senadoNorma `json:"dados"`
}

func (r senadoListResponse) items() []senadoNorma {
	if len(r.Normas) > 0 {
		return r.Normas
	}
	return r.Dados
}

// ListLegislation queries /legislacao/lista for the given year and type.
func (c *SenadoClient) ListLegislation(ctx context.Context, year int, tipo, numero string, quantity int) ([]senadoNorma, error) {
	if quantity <= 0 {
		quantity = 20
	}
	params := url.Values{}
	params.Set("quantidade", strconv.Itoa(quantity))
	if year > 0 {
		params.Set("ano", strconv.Itoa(year))
	}
	if tipo != "" {
		params.Set("tipo", tipo)
	}
	if numero != "" {
		params.Set("numero", numero)
	}

	var out senadoListResponse
	if err := c.getJSON(ctx, "/legislacao/lista", params, &out); err != nil {
		return nil, err
	}
	return out.items(), nil
}

// Search lists recent legislation and filters it by the query keywords.
// When no year is given it walks the last three years, newest first.
func (c *SenadoClient) Search(ctx context.Context, q Query) ([]models.LegislativeDocument, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	years := []int{q.Year}
	if q.Year == 0 {
		current := time.Now().Year()
		years = []int{current, current - 1, current - 2}
	}

	var collected []senadoNorma
	var lastErr error
	for _, year := range years {
		normas, err := c.ListLegislation(ctx, year, "", "", limit*2)
		if err != nil {
			lastErr = err
			continue
		}
		collected = append(collected, normas...)
		if len(collected) >= limit*3 {
			break
		}
	}
	if len(collected) == 0 && lastErr != nil {
		return nil, lastErr
	}

	keywords := strings.ToLower(q.Text)
	docs := make([]models.LegislativeDocument, 0, limit)
	for _, n := range collected {
		if keywords != "" && !normaMatches(n, keywords) {
			continue
		}
		docs = append(docs, normalizeSenado(n))
		if len(docs) >= limit {
			break
		}
	}
	return docs, nil
}

func normaMatches(n senadoNorma, keywords string) bool {
	haystack := strings.ToLower(n.Descricao + " " + n.Titulo + " " + n.Nome + " " + n.Ementa)
	for _, word := range strings.Fields(keywords) {
		if len(word) > 3 && strings.Contains(haystack, word) {
			return true
		}
	}
	return strings.Contains(haystack, keywords)
}

func normalizeSenado(n senadoNorma) models.LegislativeDocument {
	title := n.Descricao
	if title == "" {
		title = n.Titulo
	}
	if title == "" {
		title = n.Nome
	}
	summary := n.Ementa
	if summary == "" {
		summary = n.Descricao
	}
	docType := n.Tipo
	if docType == "" {
		docType = n.SiglaTipo
	}
	year, _ := strconv.Atoi(n.Ano.String())

	return models.LegislativeDocument{
		ExternalID: n.Codigo.String(),
		Source:     senadoSourceName,
		Type:       docType,
		Number:     n.Numero.String(),
		Year:       year,
		Title:      title,
		Summary:    textproc.Truncate(summary, 300),
		Status:     n.Situacao,
		URN:        n.URN,
		URL:        n.URL,
	}
}
