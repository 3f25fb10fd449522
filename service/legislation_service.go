package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"vozdalei-backend/models"
	"vozdalei-backend/repository"
	"vozdalei-backend/textproc"
)

// TrendingSource lists recent high-visibility documents.
type TrendingSource interface {
	Trending(ctx context.Context, limit int) ([]models.LegislativeDocument, error)
}

// BillSource lists bills for a given year.
type BillSource interface {
	SearchProjectsOfLaw(ctx context.Context, year int, house string, limit int) ([]models.LegislativeDocument, error)
}

// GazetteSource searches municipal official gazettes.
type GazetteSource interface {
	SearchGazettes(ctx context.Context, city, state, keywords, since, until string) ([]models.LegislativeDocument, error)
}

// CatalogSource runs raw queries against the national legislation
// catalog, for callers that know its query syntax.
type CatalogSource interface {
	AdvancedSearch(ctx context.Context, cql string, startRecord, maximumRecords int) ([]models.LegislativeDocument, int, error)
	DocumentByURN(ctx context.Context, urn string) (*models.LegislativeDocument, error)
}

// LegislationService serves document lookups that go beyond plain
// search: trending lists, stored document detail and municipal gazettes.
// Trending hits external APIs, so results are cached for a few minutes.
type LegislationService struct {
	repo       *repository.LegislationRepository
	trending   TrendingSource
	bills      BillSource
	gazettes   GazetteSource
	catalog    CatalogSource
	simplifier *SimplificationService
	cache      *gocache.Cache
}

// LegislationServiceOption is a functional option for LegislationService
type LegislationServiceOption func(*LegislationService)

// LegislationWithRepository sets the document repository
func LegislationWithRepository(repo *repository.LegislationRepository) LegislationServiceOption {
	return func(s *LegislationService) {
		s.repo = repo
	}
}

// LegislationWithTrendingSource sets the provider of trending documents
func LegislationWithTrendingSource(src TrendingSource) LegislationServiceOption {
	return func(s *LegislationService) {
		s.trending = src
	}
}

// LegislationWithBillSource sets the provider of recent bills
func LegislationWithBillSource(src BillSource) LegislationServiceOption {
	return func(s *LegislationService) {
		s.bills = src
	}
}

// LegislationWithGazetteSource sets the municipal gazette provider
func LegislationWithGazetteSource(src GazetteSource) LegislationServiceOption {
	return func(s *LegislationService) {
		s.gazettes = src
	}
}

// LegislationWithCatalogSource sets the raw catalog query backend
func LegislationWithCatalogSource(src CatalogSource) LegislationServiceOption {
	return func(s *LegislationService) {
		s.catalog = src
	}
}

// LegislationWithSimplifier enables simplification of stored documents
func LegislationWithSimplifier(simplifier *SimplificationService) LegislationServiceOption {
	return func(s *LegislationService) {
		s.simplifier = simplifier
	}
}

// NewLegislationService creates a new legislation service
func NewLegislationService(opts ...LegislationServiceOption) *LegislationService {
	s := &LegislationService{
		cache: gocache.New(trendingCacheTTL, 2*trendingCacheTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const (
	trendingCacheTTL    = 10 * time.Minute
	maxTrendingLimit    = 50
	defaultTrendingSize = 10
)

var (
	ErrLegislationNotFound   = errors.New("legislation not found")
	ErrCatalogUnavailable    = errors.New("legislation catalog not configured")
	ErrEmptyQuery            = errors.New("query must not be empty")
	ErrSimplifierUnavailable = errors.New("simplification not configured")
)

// TrendingRequest represents a request for highlighted legislation
type TrendingRequest struct {
	Limit int
}

// TrendingResult represents the highlighted legislation list
type TrendingResult struct {
	Documents []models.LegislativeDocument
}

// Trending returns recent high-visibility documents, half from recent
// bills and the rest from the newest house propositions. Each document
// gets a category so the frontend can group them.
func (s *LegislationService) Trending(ctx context.Context, req TrendingRequest) (*TrendingResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultTrendingSize
	}
	if limit > maxTrendingLimit {
		limit = maxTrendingLimit
	}

	cacheKey := fmt.Sprintf("trending:%d", limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return &TrendingResult{Documents: cached.([]models.LegislativeDocument)}, nil
	}

	var docs []models.LegislativeDocument

	if s.bills != nil {
		billDocs, err := s.bills.SearchProjectsOfLaw(ctx, time.Now().Year(), "", limit/2)
		if err != nil {
			log.Printf("Warning: failed to fetch recent bills: %v", err)
		} else {
			docs = append(docs, billDocs...)
		}
	}

	if s.trending != nil && len(docs) < limit {
		recent, err := s.trending.Trending(ctx, limit-len(docs))
		if err != nil {
			log.Printf("Warning: failed to fetch trending propositions: %v", err)
		} else {
			docs = append(docs, recent...)
		}
	}

	if len(docs) > limit {
		docs = docs[:limit]
	}
	for i := range docs {
		if docs[i].Category == "" {
			docs[i].Category = textproc.ClassifyCategory(docs[i].Title, docs[i].Tags)
		}
	}

	s.cache.Set(cacheKey, docs, gocache.DefaultExpiration)
	return &TrendingResult{Documents: docs}, nil
}

// GetDocumentRequest represents a stored document lookup
type GetDocumentRequest struct {
	ID uuid.UUID
}

// GetDocumentResult represents the stored document
type GetDocumentResult struct {
	Document *models.LegislativeDocument
}

// GetDocument fetches a stored document by its internal ID.
func (s *LegislationService) GetDocument(ctx context.Context, req GetDocumentRequest) (*GetDocumentResult, error) {
	if s.repo == nil {
		return nil, ErrLegislationNotFound
	}
	doc, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrLegislationNotFound
	}
	return &GetDocumentResult{Document: doc}, nil
}

// SimplifyDocumentRequest represents a stored-document simplification
type SimplifyDocumentRequest struct {
	ID          uuid.UUID
	TargetLevel models.SimplificationLevel
}

// SimplifyDocumentResult represents the simplified stored document
type SimplifyDocumentResult struct {
	Document       *models.LegislativeDocument
	Simplification *models.SimplificationResult
}

// SimplifyDocument rewrites a stored document at the requested level and
// persists the simplified text so later reads skip the model call.
func (s *LegislationService) SimplifyDocument(ctx context.Context, req SimplifyDocumentRequest) (*SimplifyDocumentResult, error) {
	if s.simplifier == nil {
		return nil, ErrSimplifierUnavailable
	}

	got, err := s.GetDocument(ctx, GetDocumentRequest{ID: req.ID})
	if err != nil {
		return nil, err
	}
	doc := got.Document

	text := doc.FullText
	if text == "" {
		text = doc.Summary
	}
	if text == "" {
		text = doc.Title
	}

	res, err := s.simplifier.Simplify(ctx, SimplifyRequest{
		Text:        text,
		TargetLevel: req.TargetLevel,
		Document:    doc,
	})
	if err != nil {
		return nil, err
	}

	doc.SimplifiedText = res.Simplification.SimplifiedText
	if err := s.repo.UpdateSimplifiedText(ctx, doc.ID, doc.SimplifiedText); err != nil {
		log.Printf("Warning: failed to persist simplified text for %s: %v", doc.ID, err)
	}

	return &SimplifyDocumentResult{Document: doc, Simplification: res.Simplification}, nil
}

// ByCategoryRequest represents a stored-document category listing
type ByCategoryRequest struct {
	Category string
	Limit    int
}

// ByCategoryResult represents stored documents in one category
type ByCategoryResult struct {
	Documents []models.LegislativeDocument
}

// ByCategory lists stored documents carrying the given category label.
func (s *LegislationService) ByCategory(ctx context.Context, req ByCategoryRequest) (*ByCategoryResult, error) {
	if s.repo == nil {
		return &ByCategoryResult{Documents: []models.LegislativeDocument{}}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultTrendingSize
	}
	if limit > maxTrendingLimit {
		limit = maxTrendingLimit
	}

	docs, err := s.repo.ListByCategory(ctx, req.Category, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.LegislativeDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, *doc)
	}
	return &ByCategoryResult{Documents: out}, nil
}

// MunicipalRequest represents a municipal gazette search
type MunicipalRequest struct {
	State    string
	City     string
	Keywords string
	Since    string // YYYY-MM-DD, optional
	Until    string // YYYY-MM-DD, optional
}

// MunicipalResult represents municipal gazette hits
type MunicipalResult struct {
	Documents []models.LegislativeDocument
}

// CatalogSearchRequest represents a raw catalog query in the catalog's
// own CQL syntax, e.g. `tipoDocumento="Lei" and dc.date="2023"`.
type CatalogSearchRequest struct {
	Query          string
	StartRecord    int
	MaximumRecords int
}

// CatalogSearchResult represents raw catalog hits
type CatalogSearchResult struct {
	Documents []models.LegislativeDocument
	Total     int
}

var urnQueryPattern = regexp.MustCompile(`^\s*urn\s*=\s*"([^"]+)"\s*$`)

// CatalogSearch runs a raw query against the legislation catalog. A
// query of the exact form urn="..." resolves that single document.
func (s *LegislationService) CatalogSearch(ctx context.Context, req CatalogSearchRequest) (*CatalogSearchResult, error) {
	if s.catalog == nil {
		return nil, ErrCatalogUnavailable
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	if m := urnQueryPattern.FindStringSubmatch(req.Query); m != nil {
		doc, err := s.catalog.DocumentByURN(ctx, m[1])
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return &CatalogSearchResult{Documents: []models.LegislativeDocument{}}, nil
		}
		return &CatalogSearchResult{Documents: []models.LegislativeDocument{*doc}, Total: 1}, nil
	}

	docs, total, err := s.catalog.AdvancedSearch(ctx, req.Query, req.StartRecord, req.MaximumRecords)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []models.LegislativeDocument{}
	}
	return &CatalogSearchResult{Documents: docs, Total: total}, nil
}

// Municipal searches the official gazettes of one city. A provider
// outage yields an empty list, not an error.
func (s *LegislationService) Municipal(ctx context.Context, req MunicipalRequest) (*MunicipalResult, error) {
	if s.gazettes == nil {
		return &MunicipalResult{Documents: []models.LegislativeDocument{}}, nil
	}

	docs, err := s.gazettes.SearchGazettes(ctx, req.City, req.State, req.Keywords, req.Since, req.Until)
	if err != nil {
		log.Printf("Warning: municipal gazette search failed: %v", err)
		return &MunicipalResult{Documents: []models.LegislativeDocument{}}, nil
	}
	if docs == nil {
		docs = []models.LegislativeDocument{}
	}
	return &MunicipalResult{Documents: docs}, nil
}
