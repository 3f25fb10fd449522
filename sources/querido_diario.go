package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"vozdalei-backend/models"
	"vozdalei-backend/textproc"
)

const queridoDiarioSourceName = "Querido Diário"

// QueridoDiarioClient searches municipal official gazettes through the
// Querido Diário open data project.
type QueridoDiarioClient struct {
	httpSource
}

func NewQueridoDiarioClient(baseURL string) *QueridoDiarioClient {
	return &QueridoDiarioClient{httpSource: newHTTPSource(baseURL, 5)}
}

func (c *QueridoDiarioClient) Name() string { return "querido_diario" }

type gazette struct {
	TerritoryName string   `json:"territory_name"`
	StateCode     string   `json:"state_code"`
	Date          string   `json:"date"`
	URL           string   `json:"url"`
	TxtURL        string   `json:"txt_url"`
	Excerpts      []string `json:"excerpts"`
}

// SearchGazettes lists gazette publications for a city. Dates are
// YYYY-MM-DD and optional.
func (c *QueridoDiarioClient) SearchGazettes(ctx context.Context, city, state, keywords, since, until string) ([]models.LegislativeDocument, error) {
	params := url.Values{}
	params.Set("territory_name", city)
	params.Set("state_code", strings.ToUpper(state))
	if keywords != "" {
		params.Set("querystring", keywords)
	}
	if since != "" {
		params.Set("published_since", since)
	}
	if until != "" {
		params.Set("published_until", until)
	}

	var out struct {
		Gazettes []gazette `json:"gazettes"`
	}
	if err := c.getJSON(ctx, "/gazettes", params, &out); err != nil {
		return nil, err
	}

	docs := make([]models.LegislativeDocument, 0, len(out.Gazettes))
	for _, g := range out.Gazettes {
		docs = append(docs, normalizeGazette(g))
	}
	return docs, nil
}

func normalizeGazette(g gazette) models.LegislativeDocument {
	title := fmt.Sprintf("Diário Oficial de %s/%s", g.TerritoryName, g.StateCode)
	if g.Date != "" {
		title += " - " + g.Date
	}
	return models.LegislativeDocument{
		ExternalID: g.URL,
		Source:     queridoDiarioSourceName,
		Type:       "Diário Oficial",
		Year:       textproc.ExtractYear(g.Date),
		Title:      title,
		Summary:    textproc.Truncate(strings.Join(g.Excerpts, " "), 300),
		URL:        g.URL,
	}
}
