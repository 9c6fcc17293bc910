package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/orar/google-maps-lead-extractor/models"
	"github.com/orar/google-maps-lead-extractor/utils"
)

// ReportService computes coverage stats over the final record set.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

func (s *ReportService) Generate(records []*models.BusinessRecord) *models.LeadReport {
	report := &models.LeadReport{
		LeadsByCity:     make(map[string]int),
		LeadsByCategory: make(map[string]int),
	}

	if len(records) == 0 {
		return report
	}

	report.TotalLeads = len(records)

	var ratedLeads []*models.BusinessRecord
	var ratingTotal float64

	for _, r := range records {
		if r.Website != "" {
			report.WithWebsite++
		}
		if len(r.Emails) > 0 {
			report.WithEmail++
		}
		if r.Phone != "" {
			report.WithPhone++
		}
		if r.Rating != nil {
			ratedLeads = append(ratedLeads, r)
			ratingTotal += *r.Rating
		}
		if r.City != "" {
			report.LeadsByCity[r.City]++
		}
		if r.Category != "" {
			report.LeadsByCategory[r.Category]++
		}
	}

	if len(ratedLeads) > 0 {
		report.AverageRating = round2(ratingTotal / float64(len(ratedLeads)))
	}

	// Top 5 by rating, review count breaking ties
	sort.Slice(ratedLeads, func(i, j int) bool {
		if *ratedLeads[i].Rating != *ratedLeads[j].Rating {
			return *ratedLeads[i].Rating > *ratedLeads[j].Rating
		}
		return ratedLeads[i].ReviewCount > ratedLeads[j].ReviewCount
	})
	if len(ratedLeads) > 5 {
		report.TopRated = ratedLeads[:5]
	} else {
		report.TopRated = ratedLeads
	}

	return report
}

func (s *ReportService) Print(r *models.LeadReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 LEAD EXTRACTION REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Coverage
	fmt.Printf("\033[1;33m  Coverage\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total leads    : \033[1m%d\033[0m\n", r.TotalLeads)
	fmt.Printf("  With website   : \033[1m%d\033[0m\n", r.WithWebsite)
	fmt.Printf("  With email     : \033[1m%d\033[0m\n", r.WithEmail)
	fmt.Printf("  With phone     : \033[1m%d\033[0m\n", r.WithPhone)
	if r.AverageRating > 0 {
		fmt.Printf("  Average rating : \033[1;32m%.2f\033[0m\n", r.AverageRating)
	}
	fmt.Println()

	// Top rated
	if len(r.TopRated) > 0 {
		fmt.Printf("\033[1;33m  Top Rated Leads\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for i, lead := range r.TopRated {
			fmt.Printf("  %d. %s — \033[1;32m%.1f★\033[0m (%d reviews)\n",
				i+1, truncate(lead.BusinessName, 40), *lead.Rating, lead.ReviewCount)
		}
		fmt.Println()
	}

	// By city
	if len(r.LeadsByCity) > 0 {
		fmt.Printf("\033[1;33m  Leads by City\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for _, city := range sortedKeys(r.LeadsByCity) {
			fmt.Printf("  %-30s %d\n", truncate(city, 30), r.LeadsByCity[city])
		}
		fmt.Println()
	}

	// By category
	if len(r.LeadsByCategory) > 0 {
		fmt.Printf("\033[1;33m  Leads by Category\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for _, cat := range sortedKeys(r.LeadsByCategory) {
			fmt.Printf("  %-30s %d\n", truncate(cat, 30), r.LeadsByCategory[cat])
		}
		fmt.Println()
	}

	fmt.Printf("\033[1;35m%s\033[0m\n", sep)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
