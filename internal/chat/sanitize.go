// Package chat answers questions about a project's published documentation,
// streaming responses grounded in assembled page content.
package chat

import "github.com/superdocs/superdocs/internal/types"

// SanitizeHistory normalizes a transcript to the shape the chat API
// requires: leading model turns (canned greetings and the like) are stripped
// until the first user turn. The result is either empty or starts with a
// user turn.
func SanitizeHistory(history []types.ChatTurn) []types.ChatTurn {
	for len(history) > 0 && history[0].Role != types.RoleUser {
		history = history[1:]
	}
	return history
}
