package main

import (
	"flag"
	"log"
	"os"

	"agent-ranker/internal/database"
	"agent-ranker/internal/moltbook"
	"agent-ranker/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	var postLimit = flag.Int("limit", 100, "Maximum number of posts to fetch")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := services.EnsureCategories(database.DB); err != nil {
		log.Fatal("Failed to seed categories:", err)
	}

	client := moltbook.NewClient(os.Getenv("MOLTBOOK_BASE_URL"), os.Getenv("MOLTBOOK_API_KEY"))
	indexer := services.NewIndexerService(database.DB, client)

	cfg := services.DefaultIndexerConfig()
	cfg.PostLimit = *postLimit

	indexed, err := indexer.Crawl(cfg)
	if err != nil {
		log.Fatalf("❌ Crawl failed: %v", err)
	}

	// Refresh rankings so scores reflect the new posts
	rankingService := services.NewRankingService(database.DB)
	updated, err := rankingService.RecomputeAll()
	if err != nil {
		log.Fatalf("❌ Ranking update failed: %v", err)
	}

	log.Printf("Total agents indexed: %d, rankings updated: %d", indexed, updated)
}
