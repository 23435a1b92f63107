package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"storefront/internal/catalog"
)

func main() {
	var (
		filePath       string
		text           string
		quickCategory  string
		filterCategory string
		size           string
		dietary        string
		spice          string
		price          string
		facets         bool
	)
	flag.StringVar(&filePath, "file", "", "Menu CSV export (defaults to the built-in menu)")
	flag.StringVar(&text, "q", "", "Case-insensitive name search")
	flag.StringVar(&quickCategory, "category", "", "Quick category chip, or All")
	flag.StringVar(&filterCategory, "filter-category", "", "Filter panel category")
	flag.StringVar(&size, "size", "", "Size filter")
	flag.StringVar(&dietary, "dietary", "", "Dietary filter")
	flag.StringVar(&spice, "spice", "", "Spice level filter")
	flag.StringVar(&price, "price", "", `Price band: "Under $5", "$5-$10", "$10-$15", "Above $15" or a slug like under-5`)
	flag.BoolVar(&facets, "facets", false, "Print the available filter values and exit")
	flag.Parse()

	menu, err := catalog.NewFromSource(filePath)
	if err != nil {
		log.Fatalf("load menu: %v", err)
	}

	if facets {
		f := menu.Facets()
		fmt.Printf("categories:   %s\n", strings.Join(f.Categories, ", "))
		fmt.Printf("sizes:        %s\n", strings.Join(f.Sizes, ", "))
		fmt.Printf("dietary:      %s\n", strings.Join(f.Dietary, ", "))
		fmt.Printf("spice levels: %s\n", strings.Join(f.SpiceLevels, ", "))
		bands := make([]string, len(f.PriceRanges))
		for i, r := range f.PriceRanges {
			bands[i] = string(r)
		}
		fmt.Printf("price ranges: %s\n", strings.Join(bands, ", "))
		return
	}

	q := catalog.Query{Text: text, QuickCategory: quickCategory}
	if filterCategory != "" || size != "" || dietary != "" || spice != "" || price != "" {
		band, ok := catalog.ParsePriceRange(price)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown price band %q\n", price)
			os.Exit(2)
		}
		q.Filters = &catalog.Filters{
			Category:   filterCategory,
			Size:       size,
			Dietary:    dietary,
			SpiceLevel: spice,
			PriceRange: band,
		}
	}

	items := menu.Search(q)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY\tSIZE\tDIETARY\tSPICE")
	for _, p := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Category, p.Size, p.Dietary, p.SpiceLevel)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Printf("%d of %d items\n", len(items), len(menu.List()))
}
