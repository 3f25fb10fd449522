package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"vozdalei-backend/models"
	"vozdalei-backend/textproc"
)

const lexmlSourceName = "LexML"

// LexMLClient queries the LexML SRU endpoint. SRU is a search protocol
// over XML; queries are written in CQL and records come back wrapped in
// srw:record envelopes carrying Dublin Core fields.
type LexMLClient struct {
	httpSource
}

func NewLexMLClient(baseURL string) *LexMLClient {
	return &LexMLClient{httpSource: newHTTPSource(baseURL, 5)}
}

func (c *LexMLClient) Name() string { return "lexml" }

type sruResponse struct {
	XMLName         xml.Name    `xml:"searchRetrieveResponse"`
	NumberOfRecords int         `xml:"numberOfRecords"`
	Records         []sruRecord `xml:"records>record"`
}

type sruRecord struct {
	Data struct {
		DC lexmlRecord `xml:"dc"`
	} `xml:"recordData"`
}

// lexmlRecord mixes Dublin Core fields with LexML extensions. The
// extensions carry no namespace, which encoding/xml handles the same way.
type lexmlRecord struct {
	TipoDocumento string `xml:"tipoDocumento"`
	URN           string `xml:"urn"`
	Localidade    string `xml:"localidade"`
	Autoridade    string `xml:"autoridade"`
	Title         string `xml:"title"`
	Description   string `xml:"description"`
	Date          string `xml:"date"`
	Identifier    string `xml:"identifier"`
}

// SearchRetrieve runs a raw CQL query against the SRU endpoint.
func (c *LexMLClient) SearchRetrieve(ctx context.Context, cql string, startRecord, maximumRecords int) (*sruResponse, error) {
	if startRecord <= 0 {
		startRecord = 1
	}
	if maximumRecords <= 0 {
		maximumRecords = 20
	}
	params := url.Values{}
	params.Set("operation", "searchRetrieve")
	params.Set("query", cql)
	params.Set("startRecord", strconv.Itoa(startRecord))
	params.Set("maximumRecords", strconv.Itoa(maximumRecords))
	params.Set("recordPacking", "xml")
	params.Set("recordSchema", "dc")

	body, err := c.get(ctx, "", params, "application/xml")
	if err != nil {
		return nil, err
	}

	var out sruResponse
	if err := xml.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode SRU response: %w", err)
	}
	return &out, nil
}

// SearchByKeywords looks for the keywords in title and description,
// optionally pinned to a year.
func (c *LexMLClient) SearchByKeywords(ctx context.Context, keywords string, year, limit int) ([]models.LegislativeDocument, error) {
	cql := fmt.Sprintf(`dc.title all "%s" or dc.description all "%s"`, keywords, keywords)
	if year > 0 {
		cql = fmt.Sprintf(`%s and dc.date="%d"`, cql, year)
	}
	return c.searchDocs(ctx, cql, limit)
}

// SearchProjectsOfLaw lists bills, optionally restricted to one house
// ("senado" or "camara") and a year.
func (c *LexMLClient) SearchProjectsOfLaw(ctx context.Context, year int, house string, limit int) ([]models.LegislativeDocument, error) {
	cql := `tipoDocumento="Projeto de Lei"`
	if year > 0 {
		cql = fmt.Sprintf(`%s and dc.date="%d"`, cql, year)
	}
	switch house {
	case "senado":
		cql += ` and autoridade="Senado Federal"`
	case "camara":
		cql += ` and autoridade="Câmara dos Deputados"`
	}
	return c.searchDocs(ctx, cql, limit)
}

// SearchLaws lists enacted laws matching the keywords and year.
func (c *LexMLClient) SearchLaws(ctx context.Context, keywords string, year, limit int) ([]models.LegislativeDocument, error) {
	cql := `tipoDocumento="Lei"`
	if year > 0 {
		cql = fmt.Sprintf(`%s and dc.date="%d"`, cql, year)
	}
	if keywords != "" {
		cql = fmt.Sprintf(`%s and (dc.title all "%s" or dc.description all "%s")`, cql, keywords, keywords)
	}
	return c.searchDocs(ctx, cql, limit)
}

// DocumentByURN fetches a single document identified by its LexML URN.
func (c *LexMLClient) DocumentByURN(ctx context.Context, urn string) (*models.LegislativeDocument, error) {
	resp, err := c.SearchRetrieve(ctx, fmt.Sprintf(`urn="%s"`, urn), 1, 1)
	if err != nil {
		return nil, err
	}
	if len(resp.Records) == 0 {
		return nil, nil
	}
	doc := normalizeLexML(resp.Records[0].Data.DC)
	return &doc, nil
}

// AdvancedSearch runs a raw CQL query and returns normalized documents
// plus the total hit count reported by the server.
func (c *LexMLClient) AdvancedSearch(ctx context.Context, cql string, startRecord, maximumRecords int) ([]models.LegislativeDocument, int, error) {
	resp, err := c.SearchRetrieve(ctx, cql, startRecord, maximumRecords)
	if err != nil {
		return nil, 0, err
	}
	docs := make([]models.LegislativeDocument, 0, len(resp.Records))
	for _, rec := range resp.Records {
		docs = append(docs, normalizeLexML(rec.Data.DC))
	}
	return docs, resp.NumberOfRecords, nil
}

func (c *LexMLClient) Search(ctx context.Context, q Query) ([]models.LegislativeDocument, error) {
	// A query naming a specific law and year goes through the enacted-law
	// listing first, filtered by number. Generic keyword search otherwise.
	if num := textproc.ExtractLawNumber(q.Text); num != "" && q.Year > 0 {
		laws, err := c.SearchLaws(ctx, "", q.Year, q.Limit*2)
		if err == nil {
			matched := make([]models.LegislativeDocument, 0, len(laws))
			for _, doc := range laws {
				if strings.Contains(doc.Title, num) || strings.Contains(doc.URN, num) {
					matched = append(matched, doc)
				}
			}
			if len(matched) > 0 {
				return matched, nil
			}
		}
	}
	return c.SearchByKeywords(ctx, q.Text, q.Year, q.Limit)
}

func (c *LexMLClient) searchDocs(ctx context.Context, cql string, limit int) ([]models.LegislativeDocument, error) {
	resp, err := c.SearchRetrieve(ctx, cql, 1, limit)
	if err != nil {
		return nil, err
	}
	docs := make([]models.LegislativeDocument, 0, len(resp.Records))
	for _, rec := range resp.Records {
		docs = append(docs, normalizeLexML(rec.Data.DC))
	}
	return docs, nil
}

func normalizeLexML(rec lexmlRecord) models.LegislativeDocument {
	doc := models.LegislativeDocument{
		ExternalID: rec.URN,
		Source:     lexmlSourceName,
		Type:       rec.TipoDocumento,
		Year:       textproc.ExtractYear(rec.Date),
		Title:      rec.Title,
		Summary:    textproc.Truncate(rec.Description, 300),
		Author:     rec.Autoridade,
		URN:        rec.URN,
	}
	if num := textproc.ExtractLawNumber(rec.Title); num != "" {
		doc.Number = num
	}
	if rec.URN != "" {
		doc.URL = "https://www.lexml.gov.br/urn/" + rec.URN
	}
	return doc
}
