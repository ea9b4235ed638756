// types.go - Shared UI enums and control hints for the kaas terminal client.

package types

// Tab identifies the active top-level view.
type Tab int

const (
	ChatTab Tab = iota
	UploadTab
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{UploadTab, ChatTab}

func (t Tab) String() string {
	switch t {
	case UploadTab:
		return "Upload"
	case ChatTab:
		return "Chat"
	default:
		return "Unknown"
	}
}

// Next returns the tab that follows t, wrapping around.
func (t Tab) Next() Tab {
	for i, tab := range Tabs {
		if tab == t {
			return Tabs[(i+1)%len(Tabs)]
		}
	}
	return Tabs[0]
}

// ControlInfo is the outline of controls shown below a view.
type ControlInfo struct {
	Lines []string
}

// ControlInfoType enumerates the control layouts.
type ControlInfoType int

const (
	ChatControlInfoType ControlInfoType = iota
	UploadControlInfoType
	ModalControlInfoType
)

// ControlInfoMap maps ControlInfoType to the actual ControlInfo.
var ControlInfoMap = map[ControlInfoType]ControlInfo{
	ChatControlInfoType: {Lines: []string{
		"Enter ask", "Ctrl+F filter", "PgUp/PgDn scroll", "Ctrl+Y copy answer",
		"Tab switch", "Ctrl+R refresh", "Ctrl+X reset", "F1 help", "Ctrl+C quit",
	}},
	UploadControlInfoType: {Lines: []string{
		"Enter select file", "Ctrl+U upload", "Ctrl+V paste", "Esc clear",
		"Tab switch", "Ctrl+R refresh", "Ctrl+X reset", "F1 help", "Ctrl+C quit",
	}},
	ModalControlInfoType: {Lines: []string{"←→ choose", "Enter confirm", "Esc cancel"}},
}

// ControlInfoFor returns the control outline for t.
func ControlInfoFor(t Tab) ControlInfo {
	if t == UploadTab {
		return ControlInfoMap[UploadControlInfoType]
	}
	return ControlInfoMap[ChatControlInfoType]
}
