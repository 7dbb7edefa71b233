// csvdedup reports or removes duplicate-URL rows from a scraped articles
// CSV. The scrape pipeline deliberately preserves duplicate URLs encountered
// across result pages; this tool is the offline remedy.
package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"
)

const urlColumn = 3

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: csvdedup <report|clean> <csv-file>")
	}

	command := os.Args[1]
	path := os.Args[2]

	switch command {
	case "report":
		if err := report(path); err != nil {
			log.Fatal(err)
		}
	case "clean":
		if err := clean(path); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("Unknown command %q", command)
	}
}

func readRows(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}
	if len(all[0]) <= urlColumn {
		return nil, nil, fmt.Errorf("%s has %d columns, expected at least %d", path, len(all[0]), urlColumn+1)
	}
	return all[0], all[1:], nil
}

func report(path string) error {
	_, rows, err := readRows(path)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	order := []string{}
	for _, row := range rows {
		url := row[urlColumn]
		if counts[url] == 0 {
			order = append(order, url)
		}
		counts[url]++
	}

	duplicates := 0
	for _, url := range order {
		if counts[url] > 1 {
			fmt.Printf("%dx %s\n", counts[url], url)
			duplicates += counts[url] - 1
		}
	}
	fmt.Printf("%d rows, %d duplicate rows\n", len(rows), duplicates)
	return nil
}

func clean(path string) error {
	header, rows, err := readRows(path)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		url := row[urlColumn]
		if seen[url] {
			continue
		}
		seen[url] = true
		kept = append(kept, row)
	}

	outPath := strings.TrimSuffix(path, ".csv") + "_dedup.csv"
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(kept); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	fmt.Printf("Kept %d of %d rows, wrote %s\n", len(kept), len(rows), outPath)
	return nil
}
