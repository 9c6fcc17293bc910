package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/orar/google-maps-lead-extractor/models"
)

// CSVWriter writes the final record set to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"business_name", "address", "street", "city", "state", "zip", "country",
		"phone", "website", "rating", "review_count", "category",
		"price_level", "price_range", "maps_url", "latitude", "longitude",
		"emails", "email_source",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends all records to the CSV file.
func (c *CSVWriter) Write(records []*models.BusinessRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		row := []string{
			r.BusinessName,
			r.Address,
			r.Street,
			r.City,
			r.State,
			r.Zip,
			r.Country,
			r.Phone,
			r.Website,
			formatFloat(r.Rating),
			strconv.Itoa(r.ReviewCount),
			r.Category,
			r.PriceLevel,
			r.PriceRange,
			r.MapsURL,
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			strings.Join(r.Emails, ";"),
			r.EmailSource,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
