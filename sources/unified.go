package sources

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"vozdalei-backend/models"
	"vozdalei-backend/textproc"
)

const defaultSourceTimeout = 8 * time.Second

// UnifiedSearch fans a query out to every configured source and merges
// the results. A source that fails or times out contributes nothing; the
// merged result is never an error.
type UnifiedSearch struct {
	sources []Source
	timeout time.Duration
}

func NewUnifiedSearch(srcs ...Source) *UnifiedSearch {
	return &UnifiedSearch{
		sources: srcs,
		timeout: defaultSourceTimeout,
	}
}

// Search queries all sources concurrently, deduplicates by document
// identity and returns the results ordered by relevance to the query.
func (u *UnifiedSearch) Search(ctx context.Context, query string, limit int) []models.LegislativeDocument {
	if limit <= 0 {
		limit = 10
	}
	year := textproc.ExtractYear(query)

	q := Query{Text: query, Year: year, Limit: limit}

	var mu sync.Mutex
	var all []models.LegislativeDocument
	var wg sync.WaitGroup

	for _, src := range u.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()

			srcCtx, cancel := context.WithTimeout(ctx, u.timeout)
			defer cancel()

			docs, err := src.Search(srcCtx, q)
			if err != nil {
				log.Printf("Warning: source %s failed: %v", src.Name(), err)
				return
			}

			mu.Lock()
			all = append(all, docs...)
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	all = dedupDocuments(all)

	lawNumber := textproc.ExtractLawNumber(query)
	sort.SliceStable(all, func(i, j int) bool {
		return relevanceScore(all[i], query, lawNumber) > relevanceScore(all[j], query, lawNumber)
	})

	max := limit * len(u.sources)
	if max < limit {
		max = limit
	}
	if len(all) > max {
		all = all[:max]
	}
	return all
}

// Context runs a search and formats the hits as numbered grounding text
// for a language model prompt. Returns the empty string when nothing
// matched.
func (u *UnifiedSearch) Context(ctx context.Context, query string, maxResults int) string {
	if maxResults <= 0 {
		maxResults = 5
	}
	return ContextFromResults(query, u.Search(ctx, query, maxResults*2), maxResults)
}

// ContextFromResults formats already-fetched results as grounding text,
// so a caller that needs both the documents and the prompt block can
// run a single search.
func ContextFromResults(query string, results []models.LegislativeDocument, maxResults int) string {
	if maxResults <= 0 {
		maxResults = 5
	}
	if lawNumber := textproc.ExtractLawNumber(query); lawNumber != "" {
		var filtered []models.LegislativeDocument
		for _, doc := range results {
			if strings.Contains(doc.Number, lawNumber) || strings.Contains(doc.Title, lawNumber) {
				filtered = append(filtered, doc)
			}
		}
		if len(filtered) > 0 {
			results = filtered
		}
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, doc := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s", i+1, doc.Title)
		if doc.Type != "" {
			fmt.Fprintf(&b, " (Tipo: %s)", doc.Type)
		}
		if doc.Number != "" {
			fmt.Fprintf(&b, " (Número: %s)", doc.Number)
		}
		if doc.Summary != "" {
			fmt.Fprintf(&b, "\n   Descrição: %s", doc.Summary)
		}
		if doc.Source != "" {
			fmt.Fprintf(&b, "\n   Fonte: %s", doc.Source)
		}
		if doc.Year > 0 {
			fmt.Fprintf(&b, " | Ano: %d", doc.Year)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}

func dedupDocuments(docs []models.LegislativeDocument) []models.LegislativeDocument {
	seen := make(map[string]bool, len(docs))
	out := docs[:0]
	for _, doc := range docs {
		key := doc.DedupKey()
		if key == "//0" {
			// Not enough identity to dedup on, keep it.
			out = append(out, doc)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, doc)
	}
	return out
}

// relevanceScore ranks a document against the query. A document carrying
// the law number the user asked about always outranks keyword matches,
// and recent documents get a small boost.
func relevanceScore(doc models.LegislativeDocument, query, lawNumber string) int {
	title := strings.ToLower(doc.Title)
	queryLower := strings.ToLower(query)

	score := 0
	if lawNumber != "" {
		if strings.Contains(doc.Number, lawNumber) {
			score += 100
		}
		if strings.Contains(title, lawNumber) {
			score += 50
		}
	}

	for _, word := range strings.Fields(queryLower) {
		if len(word) > 3 && strings.Contains(title, word) {
			score += 10
		}
	}

	if strings.Contains(title, queryLower) {
		score += 20
	}

	currentYear := time.Now().Year()
	switch doc.Year {
	case currentYear:
		score += 5
	case currentYear - 1:
		score += 3
	}

	return score
}
