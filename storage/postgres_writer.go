package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/orar/google-maps-lead-extractor/models"
)

// PostgresWriter persists validated leads to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS leads (
			id            SERIAL PRIMARY KEY,
			run_id        VARCHAR(36) NOT NULL DEFAULT '',
			business_name TEXT        NOT NULL,
			address       TEXT        NOT NULL DEFAULT '',
			street        TEXT        NOT NULL DEFAULT '',
			city          TEXT        NOT NULL DEFAULT '',
			state         TEXT        NOT NULL DEFAULT '',
			zip           TEXT        NOT NULL DEFAULT '',
			country       TEXT        NOT NULL DEFAULT '',
			phone         TEXT        NOT NULL DEFAULT '',
			website       TEXT        NOT NULL DEFAULT '',
			rating        NUMERIC(3,1),
			review_count  INTEGER     NOT NULL DEFAULT 0,
			category      TEXT        NOT NULL DEFAULT '',
			price_level   TEXT        NOT NULL DEFAULT '',
			price_range   TEXT        NOT NULL DEFAULT '',
			maps_url      TEXT        UNIQUE NOT NULL,
			latitude      DOUBLE PRECISION,
			longitude     DOUBLE PRECISION,
			emails        TEXT        NOT NULL DEFAULT '',
			email_source  VARCHAR(20) NOT NULL DEFAULT 'not_found',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_leads_run_id   ON leads(run_id);
		CREATE INDEX IF NOT EXISTS idx_leads_city     ON leads(city);
		CREATE INDEX IF NOT EXISTS idx_leads_category ON leads(category);
		CREATE INDEX IF NOT EXISTS idx_leads_rating   ON leads(rating);
	`)
	return err
}

// Write batch-inserts all records, skipping leads already stored under the
// same canonical maps URL.
func (pw *PostgresWriter) Write(records []*models.BusinessRecord) error {
	if len(records) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.BusinessRecord) error {
	const cols = 20

	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.RunID, r.BusinessName, r.Address, r.Street, r.City, r.State, r.Zip,
			r.Country, r.Phone, r.Website, r.Rating, r.ReviewCount, r.Category,
			r.PriceLevel, r.PriceRange, r.MapsURL, r.Latitude, r.Longitude,
			strings.Join(r.Emails, ";"), r.EmailSource)
	}

	query := fmt.Sprintf(`
		INSERT INTO leads (run_id, business_name, address, street, city, state, zip,
			country, phone, website, rating, review_count, category,
			price_level, price_range, maps_url, latitude, longitude,
			emails, email_source)
		VALUES %s
		ON CONFLICT (maps_url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchRun retrieves the stored leads for one run — used by the report service.
func (pw *PostgresWriter) FetchRun(runID string) ([]*models.BusinessRecord, error) {
	rows, err := pw.db.Query(`
		SELECT id, run_id, business_name, address, street, city, state, zip,
			country, phone, website, rating, review_count, category,
			price_level, price_range, maps_url, latitude, longitude,
			emails, email_source, created_at
		FROM leads
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch run: %w", err)
	}
	defer rows.Close()

	var records []*models.BusinessRecord
	for rows.Next() {
		r := &models.BusinessRecord{}
		var emails string
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.BusinessName, &r.Address, &r.Street, &r.City,
			&r.State, &r.Zip, &r.Country, &r.Phone, &r.Website, &r.Rating,
			&r.ReviewCount, &r.Category, &r.PriceLevel, &r.PriceRange,
			&r.MapsURL, &r.Latitude, &r.Longitude, &emails, &r.EmailSource,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if emails != "" {
			r.Emails = strings.Split(emails, ";")
		} else {
			r.Emails = []string{}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
