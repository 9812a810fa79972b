package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"vinted-scraper/models"
	"vinted-scraper/utils"
)

const topBrandCount = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(records []*models.ListingRecord) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByCondition: make(map[string]int),
	}

	if len(records) == 0 {
		return report
	}

	report.TotalListings = len(records)
	brands := make(map[string]int)

	var total float64
	for _, r := range records {
		if report.Cheapest == nil || r.Price < report.Cheapest.Price {
			report.Cheapest = r
		}
		if report.MostExpensive == nil || r.Price > report.MostExpensive.Price {
			report.MostExpensive = r
		}
		total += r.Price

		if r.Brand != "" {
			brands[r.Brand]++
		}
		if r.Condition != "" {
			report.ListingsByCondition[r.Condition]++
		}
	}

	report.AveragePrice = round2(total / float64(len(records)))
	report.MinPrice = round2(report.Cheapest.Price)
	report.MaxPrice = round2(report.MostExpensive.Price)

	for brand, n := range brands {
		report.TopBrands = append(report.TopBrands, models.BrandCount{Brand: brand, Count: n})
	}
	sort.Slice(report.TopBrands, func(i, j int) bool {
		a, b := report.TopBrands[i], report.TopBrands[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Brand < b.Brand
	})
	if len(report.TopBrands) > topBrandCount {
		report.TopBrands = report.TopBrands[:topBrandCount]
	}

	s.logger.Debug("[insights] %d listings, %d brands", report.TotalListings, len(brands))
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 VINTED SCRAPE INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Unique listings : \033[1m%d\033[0m\n\n", r.TotalListings)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.TotalListings > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m%.2f €\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m%.2f €\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m%.2f €\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.Cheapest != nil {
		fmt.Fprintf(w, "\033[1;33m  Cheapest Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.Cheapest.Title, 50))
		fmt.Fprintf(w, "  Price : \033[1;32m%.2f €\033[0m\n", r.Cheapest.Price)
		fmt.Fprintf(w, "  URL   : %s\n\n", r.Cheapest.URL)
	}

	fmt.Fprintf(w, "\033[1;33m  Top Brands\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopBrands) == 0 {
		fmt.Fprintf(w, "  No brand data\n")
	} else {
		for i, bc := range r.TopBrands {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s (%d)\n", i+1, truncate(bc.Brand, 38), bc.Count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Condition\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByCondition) == 0 {
		fmt.Fprintf(w, "  No condition data\n")
	} else {
		conditions := make([]string, 0, len(r.ListingsByCondition))
		for c := range r.ListingsByCondition {
			conditions = append(conditions, c)
		}
		sort.Slice(conditions, func(i, j int) bool {
			ni, nj := r.ListingsByCondition[conditions[i]], r.ListingsByCondition[conditions[j]]
			if ni != nj {
				return ni > nj
			}
			return conditions[i] < conditions[j]
		})
		for _, c := range conditions {
			n := r.ListingsByCondition[c]
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(c, 28), strings.Repeat("█", n), n)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to max runes, keeping multi-byte characters intact.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
