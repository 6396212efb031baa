// Package autotrigger decides which message directions translate without an
// explicit user request.
package autotrigger

import (
	"fmt"
	"strings"

	"github.com/valpere/chattran/internal/chat"
)

// Mode selects the directions that auto-translate.
type Mode string

const (
	None      Mode = "none"
	Responses Mode = "responses"
	Inputs    Mode = "inputs"
	Both      Mode = "both"
)

// Modes lists every valid mode in display order.
var Modes = []Mode{None, Responses, Inputs, Both}

// ParseMode parses a mode name. The empty string is None.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return None, nil
	case None, Responses, Inputs, Both:
		return m, nil
	default:
		return None, fmt.Errorf("unknown auto mode %q (want one of none, responses, inputs, both)", s)
	}
}

// ShouldTrigger reports whether a message with the given direction should be
// translated automatically under m. Unknown modes never trigger.
func (m Mode) ShouldTrigger(direction chat.Direction) bool {
	switch direction {
	case chat.Inbound:
		return m == Responses || m == Both
	case chat.Outbound:
		return m == Inputs || m == Both
	default:
		return false
	}
}

func (m Mode) String() string { return string(m) }
