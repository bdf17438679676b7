package store

import "time"

// VersionRecord describes one immutable version of a document. The record is
// appended to the document metadata when the version payload is written and is
// never mutated afterwards.
type VersionRecord struct {
	Version           int       `json:"version"`
	Timestamp         time.Time `json:"timestamp"`
	ChangeDescription string    `json:"change_description"`
}

// Lineage points a branch back at the document and version it was created
// from. The reference is soft: the source document may be deleted later
// without invalidating the branch.
type Lineage struct {
	SourceID      string `json:"source_id"`
	SourceVersion int    `json:"source_version"`
	SourceName    string `json:"source_name"`
}

// Metadata is the full persisted record for a document, serialized as
// metadata.json inside the document directory.
type Metadata struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ContentType    string          `json:"content_type"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	VersionCount   int             `json:"version_count"`
	CurrentVersion int             `json:"current_version"`
	Versions       []VersionRecord `json:"versions"`
	Lineage        *Lineage        `json:"lineage,omitempty"`
}

// Summary carries the lightweight per-document metadata returned by List.
// No payload files are read to produce it.
type Summary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ContentType    string    `json:"content_type"`
	UpdatedAt      time.Time `json:"updated_at"`
	VersionCount   int       `json:"version_count"`
	CurrentVersion int       `json:"current_version"`
}
