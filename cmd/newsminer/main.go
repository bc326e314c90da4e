package main

import (
	"os"

	"github.com/ideaforge/newsminer/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
