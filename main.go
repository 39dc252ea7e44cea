package main

import (
	"os"

	"github.com/klemjul/advisor/cmd"
	"github.com/klemjul/advisor/internal/app"
)

func main() {
	app := app.NewDefaultApp()
	if err := cmd.RootCommand(app).Execute(); err != nil {
		os.Exit(1)
	}
}
