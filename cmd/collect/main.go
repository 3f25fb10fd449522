package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"vozdalei-backend/config"
	"vozdalei-backend/repository"
	"vozdalei-backend/sources"
	"vozdalei-backend/textproc"
)

// One topic per category so the collected base covers the whole
// classification surface, not just whatever is trending.
var collectTopics = []string{
	"saúde",
	"educação",
	"meio ambiente",
	"segurança pública",
	"economia",
	"direitos humanos",
	"infraestrutura",
	"reforma tributária",
}

func main() {
	settings := config.Load()

	perTopic := 20
	if v := os.Getenv("COLLECT_PER_TOPIC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perTopic = n
		}
	}

	pool, err := pgxpool.New(context.Background(), settings.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	// Verify table exists
	var tableExists bool
	err = pool.QueryRow(ctx, "SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'legislations')").Scan(&tableExists)
	if err != nil {
		log.Fatalf("Failed to check table existence: %v", err)
	}
	if !tableExists {
		log.Fatal("legislations table does not exist. Please run: go run cmd/create-schema/main.go")
	}

	camara := sources.NewCamaraClient(settings.CamaraAPIURL)
	senado := sources.NewSenadoClient(settings.SenadoAPIURL)
	repo := repository.NewLegislationRepository(pool)

	year := time.Now().Year()
	totalStored := 0
	totalFailed := 0

	for _, topic := range collectTopics {
		log.Printf("Collecting topic: %s", topic)

		docs, err := camara.Harvest(ctx, topic, year, perTopic)
		if err != nil {
			log.Printf("Warning: Câmara harvest failed for %q: %v", topic, err)
		}

		senadoDocs, err := senado.Search(ctx, sources.Query{Text: topic, Limit: perTopic})
		if err != nil {
			log.Printf("Warning: Senado search failed for %q: %v", topic, err)
		}
		docs = append(docs, senadoDocs...)

		stored := 0
		for i := range docs {
			doc := &docs[i]
			if doc.Category == "" {
				doc.Category = textproc.ClassifyCategory(doc.Title, doc.Tags)
			}
			if err := repo.Upsert(ctx, doc); err != nil {
				log.Printf("Warning: Failed to store %s %s/%d: %v", doc.Type, doc.Number, doc.Year, err)
				totalFailed++
				continue
			}
			stored++
		}

		totalStored += stored
		log.Printf("✓ Topic %q: %d documents stored", topic, stored)
	}

	fmt.Printf("\n✅ Collection finished!\n")
	fmt.Printf("   Topics: %d\n", len(collectTopics))
	fmt.Printf("   Documents stored: %d\n", totalStored)
	if totalFailed > 0 {
		fmt.Printf("   Failures: %d\n", totalFailed)
	}
}
