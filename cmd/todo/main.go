package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"quickdo/internal/cli"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to read .env: %v", err)
	}

	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
