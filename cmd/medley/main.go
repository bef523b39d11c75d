package main

import (
	"log"

	"github.com/medleyhq/medley/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ medley failed to start: %v", err)
	}
}
