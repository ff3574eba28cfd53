package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/tripdesk-dev/tripdesk/db"
	"github.com/tripdesk-dev/tripdesk/internal/auth"
	"github.com/tripdesk-dev/tripdesk/internal/documents"
	"github.com/tripdesk-dev/tripdesk/internal/handlers"
	"github.com/tripdesk-dev/tripdesk/internal/router"
	"github.com/tripdesk-dev/tripdesk/internal/storage"
)

func main() {
	var err error

	err = godotenv.Load()

	if err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err = auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err = db.ConnectDatabase(os.Getenv("DB_DRIVER"), dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	storageRoot := os.Getenv("STORAGE_ROOT")

	if storageRoot == "" {
		storageRoot = "storage"
	}

	useDrive := os.Getenv("STORAGE_DRIVER") == "drive"

	store := storage.NewLocalStore(storageRoot)
	handlers.SetDocumentService(documents.NewService(db.DB, store, useDrive))

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err = r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
