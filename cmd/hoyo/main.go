package main

import (
	"github.com/joho/godotenv"

	"github.com/hoyo-tech/hoyo-client/internal/cli"
)

func main() {
	// A .env file is optional for the CLI.
	_ = godotenv.Load()

	cli.Execute()
}
