package sources

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vozdalei-backend/models"
	"vozdalei-backend/textproc"
)

const camaraSourceName = "Câmara dos Deputados"

// CamaraClient talks to the open data API of the Câmara dos Deputados.
type CamaraClient struct {
	httpSource
}

func NewCamaraClient(baseURL string) *CamaraClient {
	return &CamaraClient{httpSource: newHTTPSource(baseURL, 10)}
}

func (c *CamaraClient) Name() string { return "camara" }

type camaraProposition struct {
	ID        int    `json:"id"`
	SiglaTipo string `json:"siglaTipo"`
	Numero    int    `json:"numero"`
	Ano       int    `json:"ano"`
	Ementa    string `json:"ementa"`
}

type camaraPropositionDetail struct {
	camaraProposition
	DataApresentacao string `json:"dataApresentacao"`
	URLInteiroTeor   string `json:"urlInteiroTeor"`
	StatusProposicao struct {
		DescricaoSituacao string `json:"descricaoSituacao"`
	} `json:"statusProposicao"`
}

type camaraAuthor struct {
	Nome string `json:"nome"`
	Tipo string `json:"tipo"`
}

// SearchPropositions queries /proposicoes ordered by newest first.
func (c *CamaraClient) SearchPropositions(ctx context.Context, keywords string, year, limit int) ([]camaraProposition, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("itens", strconv.Itoa(limit))
	params.Set("ordem", "DESC")
	params.Set("ordenarPor", "id")
	if keywords != "" {
		params.Set("keywords", keywords)
	}
	if year > 0 {
		params.Set("ano", strconv.Itoa(year))
	}

	var out struct {
		Dados []camaraProposition `json:"dados"`
	}
	if err := c.getJSON(ctx, "/proposicoes", params, &out); err != nil {
		return nil, err
	}
	return out.Dados, nil
}

// Proposition fetches full details for a single proposition.
func (c *CamaraClient) Proposition(ctx context.Context, id int) (*camaraPropositionDetail, error) {
	var out struct {
		Dados camaraPropositionDetail `json:"dados"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/proposicoes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Dados, nil
}

// PropositionAuthors lists the authors of a proposition.
func (c *CamaraClient) PropositionAuthors(ctx context.Context, id int) ([]camaraAuthor, error) {
	var out struct {
		Dados []camaraAuthor `json:"dados"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/proposicoes/%d/autores", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Dados, nil
}

// Trending returns the most recent propositions of the current year.
func (c *CamaraClient) Trending(ctx context.Context, limit int) ([]models.LegislativeDocument, error) {
	props, err := c.SearchPropositions(ctx, "", time.Now().Year(), limit)
	if err != nil {
		return nil, err
	}
	docs := make([]models.LegislativeDocument, 0, len(props))
	for _, p := range props {
		docs = append(docs, normalizeCamara(p))
	}
	return docs, nil
}

// Harvest lists propositions and enriches each one with its detail and
// author records. Used by the collector tool; one list call plus two
// detail calls per proposition, paced by the client rate limit.
func (c *CamaraClient) Harvest(ctx context.Context, keywords string, year, limit int) ([]models.LegislativeDocument, error) {
	props, err := c.SearchPropositions(ctx, keywords, year, limit)
	if err != nil {
		return nil, err
	}

	docs := make([]models.LegislativeDocument, 0, len(props))
	for _, p := range props {
		doc := normalizeCamara(p)

		detail, err := c.Proposition(ctx, p.ID)
		if err != nil {
			log.Printf("Warning: Failed to fetch proposition %d detail: %v", p.ID, err)
		} else {
			doc.Status = detail.StatusProposicao.DescricaoSituacao
			if detail.URLInteiroTeor != "" {
				doc.URL = detail.URLInteiroTeor
			}
			if ts := parseCamaraDate(detail.DataApresentacao); ts != nil {
				doc.PresentationDate = ts
			}
		}

		authors, err := c.PropositionAuthors(ctx, p.ID)
		if err != nil {
			log.Printf("Warning: Failed to fetch proposition %d authors: %v", p.ID, err)
		} else {
			names := make([]string, 0, len(authors))
			for _, a := range authors {
				if a.Nome != "" {
					names = append(names, a.Nome)
				}
			}
			doc.Author = strings.Join(names, ", ")
		}

		docs = append(docs, doc)
	}
	return docs, nil
}

func parseCamaraDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	return nil
}

func (c *CamaraClient) Search(ctx context.Context, q Query) ([]models.LegislativeDocument, error) {
	props, err := c.SearchPropositions(ctx, q.Text, q.Year, q.Limit)
	if err != nil {
		return nil, err
	}
	docs := make([]models.LegislativeDocument, 0, len(props))
	for _, p := range props {
		docs = append(docs, normalizeCamara(p))
	}
	return docs, nil
}

func normalizeCamara(p camaraProposition) models.LegislativeDocument {
	return models.LegislativeDocument{
		ExternalID: strconv.Itoa(p.ID),
		Source:     camaraSourceName,
		Type:       p.SiglaTipo,
		Number:     strconv.Itoa(p.Numero),
		Year:       p.Ano,
		Title:      p.Ementa,
		Summary:    textproc.Truncate(p.Ementa, 300),
		URL:        fmt.Sprintf("https://www.camara.leg.br/proposicoesWeb/fichadetramitacao?idProposicao=%d", p.ID),
	}
}
