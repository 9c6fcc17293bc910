package storage

import "github.com/orar/google-maps-lead-extractor/models"

// LeadWriter is the interface any storage backend must satisfy.
type LeadWriter interface {
	Write(records []*models.BusinessRecord) error
	Close() error
}
