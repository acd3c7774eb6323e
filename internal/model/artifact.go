package model

import "time"

// ArtifactFormat is the output representation decided by the classifier.
type ArtifactFormat string

const (
	FormatText        ArtifactFormat = "text"
	FormatSpreadsheet ArtifactFormat = "spreadsheet"
	FormatPDF         ArtifactFormat = "pdf"
	FormatDocument    ArtifactFormat = "document"
)

// GeneratedArtifact is a rendered file held in the artifact store.
type GeneratedArtifact struct {
	Name        string         `json:"name"`
	Format      ArtifactFormat `json:"format"`
	ContentType string         `json:"content_type"`
	SizeBytes   int64          `json:"size_bytes"`
	Digest      string         `json:"digest"`
}

// ArtifactRecord is the persisted registry row for a generated artifact.
// Rows are written asynchronously by the record worker.
type ArtifactRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   string    `gorm:"size:64;not null;index" json:"session_id"`
	Name        string    `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Format      string    `gorm:"size:32;not null" json:"format"`
	ContentType string    `gorm:"size:128;not null" json:"content_type"`
	SizeBytes   int64     `gorm:"not null" json:"size_bytes"`
	Digest      string    `gorm:"size:128" json:"digest"`
	CreatedAt   time.Time `json:"created_at"`
}
