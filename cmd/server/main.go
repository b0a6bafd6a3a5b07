package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"xnote/internal/auth"
	"xnote/internal/cache"
	"xnote/internal/db"
	"xnote/internal/handlers"
	"xnote/internal/models"
	"xnote/internal/sentiment"
	"xnote/internal/user"
)

func main() {
	port := flag.Int("port", 8000, "Server port")
	dataDir := flag.String("data", "./data", "Data directory")
	flag.Parse()

	// No fallback secret: startup aborts when XNOTE_SECRET is unset.
	secret := os.Getenv("XNOTE_SECRET")
	a, err := auth.New(secret)
	if err != nil {
		log.Fatalf("XNOTE_SECRET environment variable not set, refusing to start: %v", err)
	}

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	database, err := db.New(filepath.Join(*dataDir, "xnote.db"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	users := user.NewStore(accountFromEnv())
	classifier := sentiment.NewClassifier(sentiment.NewVaderScorer())
	c := cache.New()
	h := handlers.New(database, c, a, users, classifier)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Starting Xnote server on %s", addr)

	if err := http.ListenAndServe(addr, h.Mux()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func accountFromEnv() models.Account {
	account := user.DefaultAccount
	if v := os.Getenv("XNOTE_USERNAME"); v != "" {
		account.Username = v
	}
	if v := os.Getenv("XNOTE_EMAIL"); v != "" {
		account.Email = v
	}
	if v := os.Getenv("XNOTE_PASSWORD_HASH"); v != "" {
		account.PasswordDigest = v
	}
	return account
}
