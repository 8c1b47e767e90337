package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/Zachkp/sheetfolio/cmd"
)

func main() {
	cmd.Execute()
}
