package models

// AllDocumentsLabel is the display label of the unscoped filter.
const AllDocumentsLabel = "All Documents"

// Filter scopes a query to one document or to all documents.
// The zero value is the "all documents" sentinel.
type Filter struct {
	filename string
}

// AllDocuments returns the unscoped filter.
func AllDocuments() Filter { return Filter{} }

// ForDocument returns a filter scoped to one filename.
func ForDocument(filename string) Filter { return Filter{filename: filename} }

// IsAll reports whether the filter is the "all documents" sentinel.
func (f Filter) IsAll() bool { return f.filename == "" }

// Filename returns the scoped filename, or "" for the sentinel.
func (f Filter) Filename() string { return f.filename }

// Param returns the value sent to the backend: nil for the sentinel so the
// request carries a JSON null rather than a literal label.
func (f Filter) Param() *string {
	if f.IsAll() {
		return nil
	}
	name := f.filename
	return &name
}

// Label returns the text shown in the filter selector.
func (f Filter) Label() string {
	if f.IsAll() {
		return AllDocumentsLabel
	}
	return f.filename
}

// ContainedIn reports whether the filter still refers to a known document.
// The sentinel is always contained.
func (f Filter) ContainedIn(docs []Document) bool {
	if f.IsAll() {
		return true
	}
	for _, d := range docs {
		if d.Filename == f.filename {
			return true
		}
	}
	return false
}
