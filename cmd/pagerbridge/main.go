package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Local development convenience. Missing .env is not an error.
	_ = godotenv.Load()
	runServe()
}
