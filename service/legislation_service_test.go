package service

import (
	"context"
	"errors"
	"testing"

	"vozdalei-backend/models"
)

type fakeTrendingSource struct {
	calls int
	docs  []models.LegislativeDocument
	err   error
}

func (f *fakeTrendingSource) Trending(ctx context.Context, limit int) ([]models.LegislativeDocument, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.docs) > limit {
		return f.docs[:limit], nil
	}
	return f.docs, nil
}

type fakeBillSource struct {
	calls int
	docs  []models.LegislativeDocument
	err   error
}

func (f *fakeBillSource) SearchProjectsOfLaw(ctx context.Context, year int, house string, limit int) ([]models.LegislativeDocument, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeGazetteSource struct {
	docs []models.LegislativeDocument
	err  error
}

func (f *fakeGazetteSource) SearchGazettes(ctx context.Context, city, state, keywords, since, until string) ([]models.LegislativeDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func TestTrendingFillsCategories(t *testing.T) {
	src := &fakeTrendingSource{docs: []models.LegislativeDocument{
		{Type: "PL", Number: "1", Year: 2025, Title: "Programa de merenda escolar nas creches"},
		{Type: "PL", Number: "2", Year: 2025, Title: "Assunto sem categoria aparente"},
	}}
	s := NewLegislationService(LegislationWithTrendingSource(src))

	res, err := s.Trending(context.Background(), TrendingRequest{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(res.Documents))
	}
	if res.Documents[0].Category != "Educação" {
		t.Errorf("expected Educação, got %q", res.Documents[0].Category)
	}
	if res.Documents[1].Category != "Geral" {
		t.Errorf("expected Geral fallback, got %q", res.Documents[1].Category)
	}
}

func TestTrendingCachesResults(t *testing.T) {
	src := &fakeTrendingSource{docs: []models.LegislativeDocument{
		{Type: "PL", Number: "1", Year: 2025, Title: "Qualquer proposta"},
	}}
	s := NewLegislationService(LegislationWithTrendingSource(src))
	ctx := context.Background()

	if _, err := s.Trending(ctx, TrendingRequest{Limit: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Trending(ctx, TrendingRequest{Limit: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("expected 1 upstream call thanks to the cache, got %d", src.calls)
	}
}

func TestTrendingCombinesBillsAndPropositions(t *testing.T) {
	bills := &fakeBillSource{docs: []models.LegislativeDocument{
		{Type: "Projeto de Lei", Number: "10", Year: 2025, Title: "Projeto recente"},
	}}
	recent := &fakeTrendingSource{docs: []models.LegislativeDocument{
		{Type: "PL", Number: "20", Year: 2025, Title: "Proposição recente"},
	}}
	s := NewLegislationService(
		LegislationWithBillSource(bills),
		LegislationWithTrendingSource(recent),
	)

	res, err := s.Trending(context.Background(), TrendingRequest{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Documents) != 2 {
		t.Errorf("expected documents from both sources, got %d", len(res.Documents))
	}
	if bills.calls != 1 || recent.calls != 1 {
		t.Errorf("expected both sources queried, got bills=%d recent=%d", bills.calls, recent.calls)
	}
}

func TestTrendingSurvivesSourceOutage(t *testing.T) {
	src := &fakeTrendingSource{err: errors.New("503")}
	s := NewLegislationService(LegislationWithTrendingSource(src))

	res, err := s.Trending(context.Background(), TrendingRequest{Limit: 10})
	if err != nil {
		t.Fatalf("expected no error on source outage, got %v", err)
	}
	if len(res.Documents) != 0 {
		t.Errorf("expected empty list, got %d", len(res.Documents))
	}
}

func TestTrendingClampsLimit(t *testing.T) {
	many := make([]models.LegislativeDocument, 80)
	for i := range many {
		many[i] = models.LegislativeDocument{Type: "PL", Number: "1", Year: 2000 + i, Title: "Doc"}
	}
	src := &fakeTrendingSource{docs: many}
	s := NewLegislationService(LegislationWithTrendingSource(src))

	res, err := s.Trending(context.Background(), TrendingRequest{Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Documents) > maxTrendingLimit {
		t.Errorf("expected at most %d documents, got %d", maxTrendingLimit, len(res.Documents))
	}
}

func TestMunicipalOutageReturnsEmpty(t *testing.T) {
	s := NewLegislationService(LegislationWithGazetteSource(&fakeGazetteSource{err: errors.New("down")}))

	res, err := s.Municipal(context.Background(), MunicipalRequest{State: "SP", City: "Campinas"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Documents) != 0 {
		t.Errorf("expected empty documents, got %d", len(res.Documents))
	}
}

func TestMunicipalReturnsGazettes(t *testing.T) {
	s := NewLegislationService(LegislationWithGazetteSource(&fakeGazetteSource{
		docs: []models.LegislativeDocument{
			{Source: "Querido Diário", Type: "Diário Oficial", Title: "Diário Oficial de Campinas/SP"},
		},
	}))

	res, err := s.Municipal(context.Background(), MunicipalRequest{State: "sp", City: "Campinas", Keywords: "transporte"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Documents) != 1 {
		t.Errorf("expected 1 gazette, got %d", len(res.Documents))
	}
}

type fakeCatalogSource struct {
	docs       []models.LegislativeDocument
	total      int
	urnDoc     *models.LegislativeDocument
	lastCQL    string
	lastURN    string
	urnLookups int
}

func (f *fakeCatalogSource) AdvancedSearch(ctx context.Context, cql string, startRecord, maximumRecords int) ([]models.LegislativeDocument, int, error) {
	f.lastCQL = cql
	return f.docs, f.total, nil
}

func (f *fakeCatalogSource) DocumentByURN(ctx context.Context, urn string) (*models.LegislativeDocument, error) {
	f.urnLookups++
	f.lastURN = urn
	return f.urnDoc, nil
}

func TestCatalogSearchPassesRawQuery(t *testing.T) {
	src := &fakeCatalogSource{
		docs:  []models.LegislativeDocument{{Type: "Lei", Number: "14133", Year: 2021, Title: "Lei de Licitações"}},
		total: 37,
	}
	s := NewLegislationService(LegislationWithCatalogSource(src))

	res, err := s.CatalogSearch(context.Background(), CatalogSearchRequest{
		Query: `tipoDocumento="Lei" and dc.date="2021"`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.lastCQL != `tipoDocumento="Lei" and dc.date="2021"` {
		t.Errorf("query not passed through: %q", src.lastCQL)
	}
	if res.Total != 37 || len(res.Documents) != 1 {
		t.Errorf("total = %d, documents = %d", res.Total, len(res.Documents))
	}
}

func TestCatalogSearchResolvesURNQueries(t *testing.T) {
	src := &fakeCatalogSource{
		urnDoc: &models.LegislativeDocument{Type: "Lei", Number: "8080", Year: 1990, URN: "urn:lex:br:federal:lei:1990-09-19;8080"},
	}
	s := NewLegislationService(LegislationWithCatalogSource(src))

	res, err := s.CatalogSearch(context.Background(), CatalogSearchRequest{
		Query: `urn="urn:lex:br:federal:lei:1990-09-19;8080"`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.urnLookups != 1 {
		t.Fatalf("urn lookups = %d, want 1", src.urnLookups)
	}
	if src.lastURN != "urn:lex:br:federal:lei:1990-09-19;8080" {
		t.Errorf("urn = %q", src.lastURN)
	}
	if res.Total != 1 || len(res.Documents) != 1 {
		t.Errorf("total = %d, documents = %d", res.Total, len(res.Documents))
	}
}

func TestCatalogSearchWithoutBackend(t *testing.T) {
	s := NewLegislationService()
	_, err := s.CatalogSearch(context.Background(), CatalogSearchRequest{Query: `dc.title all "saude"`})
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestCatalogSearchRejectsEmptyQuery(t *testing.T) {
	s := NewLegislationService(LegislationWithCatalogSource(&fakeCatalogSource{}))
	_, err := s.CatalogSearch(context.Background(), CatalogSearchRequest{Query: "  "})
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestSimplifyDocumentRequiresSimplifier(t *testing.T) {
	s := NewLegislationService()
	_, err := s.SimplifyDocument(context.Background(), SimplifyDocumentRequest{TargetLevel: models.LevelSimple})
	if !errors.Is(err, ErrSimplifierUnavailable) {
		t.Errorf("expected ErrSimplifierUnavailable, got %v", err)
	}
}

func TestSimplifyDocumentUnknownDocument(t *testing.T) {
	s := NewLegislationService(LegislationWithSimplifier(NewSimplificationService()))
	_, err := s.SimplifyDocument(context.Background(), SimplifyDocumentRequest{TargetLevel: models.LevelSimple})
	if !errors.Is(err, ErrLegislationNotFound) {
		t.Errorf("expected ErrLegislationNotFound, got %v", err)
	}
}

func TestByCategoryWithoutRepository(t *testing.T) {
	s := NewLegislationService()
	res, err := s.ByCategory(context.Background(), ByCategoryRequest{Category: "Saúde"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Documents) != 0 {
		t.Errorf("expected empty list, got %d documents", len(res.Documents))
	}
}
