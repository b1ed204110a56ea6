package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/moyu-x/content-organizer/cmd"
)

func main() {
	cmd.Execute()
}
