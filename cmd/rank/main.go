package main

import (
	"log"

	"agent-ranker/internal/database"
	"agent-ranker/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("🔄 Starting ranking recomputation...")

	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	rankingService := services.NewRankingService(database.DB)

	updated, err := rankingService.RecomputeAll()
	if err != nil {
		log.Fatalf("❌ Ranking recomputation failed: %v", err)
	}

	log.Printf("✅ Recomputed rankings for %d agents", updated)
}
