// model.go - DocListModel, the read-only document panel shown next to the active tab.

package doclist

import "kaas/src/models"

const (
	LoadingText = "Loading documents..."
	EmptyText   = "No documents found. Upload one to begin."
)

// Snapshot is the state the panel renders. It is owned by the root model
// and passed in whole; the panel never changes it.
type Snapshot struct {
	Docs    []models.Document
	Loading bool
	Err     string
}

// DocListModel lays out a Snapshot in a fixed-size column.
type DocListModel struct {
	Width  int
	Height int
}

func New() *DocListModel {
	return &DocListModel{Width: 32, Height: 20}
}

// SetSize updates the panel dimensions.
func (d *DocListModel) SetSize(width, height int) {
	d.Width = width
	d.Height = height
}
