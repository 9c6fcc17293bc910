package main

import (
	"fmt"
	"os"

	"github.com/orar/google-maps-lead-extractor/config"
	"github.com/orar/google-maps-lead-extractor/scraper/gmaps"
	"github.com/orar/google-maps-lead-extractor/services"
	"github.com/orar/google-maps-lead-extractor/storage"
	"github.com/orar/google-maps-lead-extractor/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Google Maps Lead Extractor starting ===")
	logger.Info("Config — query: %q | max results: %d | emails: %t | concurrency: %d",
		cfg.SearchQuery, cfg.MaxResults, cfg.ExtractEmails, cfg.MaxConcurrency)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer pgWriter.Close()

	validator := services.NewValidator(cfg.DefaultCountry, cfg.BlacklistDomains, cfg.BlacklistPatterns, logger)

	scraper := gmaps.New(cfg, validator, logger)
	records, err := scraper.Scrape()
	if err != nil {
		logger.Error("Extraction run failed: %v", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		logger.Warn("Run finished with zero valid records.")
	}

	logger.Info("Extracted %d records — writing to CSV...", len(records))

	if err := csvWriter.Write(records); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Records saved to %s", cfg.CSVOutputPath)
	}

	if err := pgWriter.Write(records); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
	} else {
		logger.Info("Records stored in PostgreSQL (table: leads)")
	}

	dbRecords, err := pgWriter.FetchRun(scraper.RunID())
	if err != nil || len(dbRecords) == 0 {
		if err != nil {
			logger.Error("Failed to fetch leads from DB for report: %v", err)
		}
		dbRecords = records
	}

	reportSvc := services.NewReportService(logger)
	report := reportSvc.Generate(dbRecords)
	reportSvc.Print(report)

	fmt.Printf("  Done. CSV → %s | Leads → PostgreSQL (leads table)\n\n",
		cfg.CSVOutputPath)
}
