package main

import (
	"os"

	"github.com/studiokasse/studiokasse/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
