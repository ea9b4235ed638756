// spinner.go - Braille spinner shared by views that wait on the backend.

package spinner

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const Interval = 100 * time.Millisecond

var (
	frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	nextID  atomic.Int64
)

// TickMsg advances the spinner of the view identified by Owner.
type TickMsg struct {
	Owner int64
}

// NewOwner returns an id unique for the life of the process. Views use it
// to tell their own ticks and results from those of discarded instances.
func NewOwner() int64 {
	return nextID.Add(1)
}

// Tick schedules the next frame for owner.
func Tick(owner int64) tea.Cmd {
	return tea.Tick(Interval, func(time.Time) tea.Msg {
		return TickMsg{Owner: owner}
	})
}

// Frame returns the spinner character for the given index.
func Frame(i int) string {
	return frames[i%len(frames)]
}
