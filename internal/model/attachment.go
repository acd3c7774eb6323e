package model

import (
	"path/filepath"
	"strings"
)

// AttachmentKind is the declared file kind of one uploaded attachment.
type AttachmentKind string

const (
	KindTabular     AttachmentKind = "tabular"
	KindDocument    AttachmentKind = "document"
	KindSlideDeck   AttachmentKind = "slide-deck"
	KindImage       AttachmentKind = "image"
	KindScannedDoc  AttachmentKind = "scanned-doc"
	KindUnsupported AttachmentKind = "unsupported"
)

// Attachment is one uploaded file, immutable for the duration of a request.
type Attachment struct {
	Name string
	Kind AttachmentKind
	Data []byte
}

// ExtractedText is the plain text derived from one attachment.
type ExtractedText struct {
	SourceName string `json:"source_name"`
	Text       string `json:"text"`
}

// KindForFilename maps a file extension to an attachment kind.
func KindForFilename(name string) AttachmentKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls", ".csv":
		return KindTabular
	case ".docx":
		return KindDocument
	case ".pptx":
		return KindSlideDeck
	case ".png", ".jpg", ".jpeg", ".bmp", ".gif":
		return KindImage
	case ".pdf":
		return KindScannedDoc
	default:
		return KindUnsupported
	}
}
