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

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	log.Println("🔄 Running database migrations...")

	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := services.EnsureCategories(database.DB); err != nil {
		log.Fatal("Failed to seed categories:", err)
	}

	log.Println("✅ Migrations completed")
}
