package main

import (
	"log"
	"os"

	"ai-recall-be/internal/model"
	"ai-recall-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM Migration...")

	// Extensions first; vector columns cannot migrate without pgvector
	color.Cyan("Step 1: Setting up extensions...")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	color.Cyan("Step 2: Running AutoMigrate for 7 tables...")
	models := []interface{}{
		&model.Book{},
		&model.Note{},
		&model.URL{},
		&model.URLChunk{},
		&model.TweetThread{},
		&model.Tweet{},
		&model.Evaluation{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// HNSW indexes for the cosine-distance queries. AutoMigrate cannot
	// express operator classes, so these stay raw SQL.
	color.Cyan("Step 3: Creating vector indexes...")
	indexSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_notes_embedding_hnsw ON notes USING hnsw (embedding vector_cosine_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_url_chunks_embedding_hnsw ON url_chunks USING hnsw (embedding vector_cosine_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_tweets_embedding_hnsw ON tweets USING hnsw (embedding vector_cosine_ops);`,
	}
	for _, sql := range indexSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to create vector index: %v. Continuing...", err)
		}
	}

	color.Green("✅ Migration completed successfully")
}
