// message.go - Defines the Turn struct for the conversation history shown in the chat view.

package models

// Sender identifies who produced a turn.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Turn is one entry of the conversation history. Sources are only set on
// assistant turns.
type Turn struct {
	Sender  Sender
	Text    string
	Sources []Source
}

// IsUser reports whether the turn was typed by the user.
func (t Turn) IsUser() bool { return t.Sender == SenderUser }

// UserTurn builds a user turn.
func UserTurn(text string) Turn {
	return Turn{Sender: SenderUser, Text: text}
}

// AssistantTurn builds an assistant turn. A nil sources slice is normalized
// to an empty one so failed answers always carry an empty list.
func AssistantTurn(text string, sources []Source) Turn {
	if sources == nil {
		sources = []Source{}
	}
	return Turn{Sender: SenderAssistant, Text: text, Sources: sources}
}
