// Package bot implements the command router and the daily tip scheduler on
// top of the catalog client and preference store.
package bot

import "context"

// Command is one parsed user instruction delivered by the chat transport.
type Command struct {
	// UserID identifies the sender; replies go back to the same id.
	UserID string
	// Name is the command without the leading slash, e.g. "find".
	Name string
	// Args are the whitespace-separated arguments following the command.
	Args []string
}

// Reply is the textual answer to a command, optionally carrying an image
// the transport should attach with the text as caption.
type Reply struct {
	Text     string
	ImageURL string
}

// Sender delivers outbound messages through the chat transport.
type Sender interface {
	SendMessage(ctx context.Context, userID string, text string) error
	SendPhoto(ctx context.Context, userID string, photoURL string, caption string) error
}
