// Command extract runs job link extraction on a saved page, for tuning the
// recognition heuristics without a browser.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"go-upwork-opener/internal/messages"
)

func main() {
	file := flag.String("file", "", "saved HTML of an Upwork page")
	pageURL := flag.String("url", "https://www.upwork.com/nx/search/jobs/", "address the page was saved from")
	maxAge := flag.Float64("max-age", -1, "only keep jobs posted within this many minutes (negative: no filter)")
	flag.Parse()

	if *file == "" {
		log.Fatal("❌ -file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", *file, err)
	}

	var req messages.ExtractRequest
	if *maxAge >= 0 {
		req.MaxAgeMinutes = maxAge
	}

	page := messages.StaticPage{PageURL: *pageURL, Content: string(data)}
	resp, err := messages.HandleExtract(context.Background(), page, req)
	if err != nil {
		log.Fatalf("❌ Extraction failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		log.Fatalf("❌ Failed to print result: %v", err)
	}
}
