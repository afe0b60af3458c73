package main

import "github.com/Manoj010104/news-summarizer/internal/app"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app.SetVersionInfo(version, commit, date)
	app.Execute()
}
