package agent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/boristopalov/keydoor/pkg/core"
)

var (
	// "pick up", "pick-up" and "pickup" all contain "up"; they are folded
	// to a token without it before any keyword is tested.
	pickUpPhrase = regexp.MustCompile(`pick[\s_-]*up`)

	// Checked in order; the first contained keyword wins.
	moveKeywords = []struct {
		keyword string
		action  core.Action
	}{
		{"up", core.MoveUp},
		{"down", core.MoveDown},
		{"left", core.MoveLeft},
		{"right", core.MoveRight},
	}

	// The first ')' after the name terminates the argument.
	toolCallPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\(([^)]*)\)`)
	toolOpenPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*\(`)
)

// ParseAction maps free text to an action by keyword containment, in
// priority order: up, down, left, right, pick, open. "pick up" counts as a
// pickup, not a move.
func ParseAction(text string) (core.Action, error) {
	normalized := pickUpPhrase.ReplaceAllString(strings.ToLower(text), "pickkey")

	for _, kw := range moveKeywords {
		if strings.Contains(normalized, kw.keyword) {
			return kw.action, nil
		}
	}
	if strings.Contains(normalized, "pick") {
		return core.PickUpKey, nil
	}
	if strings.Contains(normalized, "open") {
		return core.OpenDoor, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrNoActionFound, text)
}

type ToolCall struct {
	Name     string
	Argument string
}

// ParseToolCall looks for the first Name(argument) in text. It reports
// found=false when text holds no call, and ErrMalformedToolCall when a call
// is opened but never closed.
func ParseToolCall(text string) (ToolCall, bool, error) {
	if m := toolCallPattern.FindStringSubmatch(text); m != nil {
		return ToolCall{Name: m[1], Argument: strings.TrimSpace(m[2])}, true, nil
	}
	if loc := toolOpenPattern.FindStringIndex(text); loc != nil {
		return ToolCall{}, false, fmt.Errorf("%w: %q", ErrMalformedToolCall, text[loc[0]:])
	}
	return ToolCall{}, false, nil
}
