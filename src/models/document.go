package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DocumentID is the backend's opaque identifier for an uploaded document.
// The backend may encode it as a JSON string or number; it is kept as text.
type DocumentID string

// UnmarshalJSON accepts both string and numeric identifiers.
func (id *DocumentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = DocumentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("document id: %w", err)
	}
	*id = DocumentID(n.String())
	return nil
}

// Document is a backend-tracked uploaded file.
type Document struct {
	ID       DocumentID `json:"id"`
	Filename string     `json:"filename"`
}

// UploadResult is returned by the upload endpoint. It is only used to render
// a success message and is not retained.
type UploadResult struct {
	Filename string     `json:"filename"`
	UploadID DocumentID `json:"upload_id"`
	Message  string     `json:"message,omitempty"`
}

// Source describes the provenance of an answer: one chunk of one document.
type Source struct {
	Filename   string `json:"filename"`
	ChunkIndex int    `json:"chunk_index"`
	Snippet    string `json:"snippet"`
	CharStart  *int   `json:"char_start,omitempty"`
	CharEnd    *int   `json:"char_end,omitempty"`
}

// QueryResult is the answer to a question plus the cited sources, in the
// order the backend ranked them.
type QueryResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Query   string   `json:"query,omitempty"`
	AuditID *int64   `json:"audit_id,omitempty"`
}

// QueryRequest is the JSON body of POST /query. Filename is encoded as null
// when the query is not scoped to a single document.
type QueryRequest struct {
	Question string  `json:"question"`
	Filename *string `json:"filename"`
	K        int     `json:"k"`
}
