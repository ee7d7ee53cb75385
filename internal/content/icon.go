package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownIcon is returned when a document names an icon outside the set.
var ErrUnknownIcon = errors.New("unknown icon")

// Icon names a service icon.
type Icon string

const (
	IconZap        Icon = "zap"
	IconTrendingUp Icon = "trending-up"
	IconUsers      Icon = "users"
	IconCode       Icon = "code"
	IconRocket     Icon = "rocket"
	IconTarget     Icon = "target"
)

// ParseIcon validates name against the known icons.
func ParseIcon(name string) (Icon, error) {
	switch i := Icon(name); i {
	case IconZap, IconTrendingUp, IconUsers, IconCode, IconRocket, IconTarget:
		return i, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownIcon, name)
	}
}

// UnmarshalJSON rejects unknown icon names.
func (i *Icon) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("icon: %w", err)
	}
	parsed, err := ParseIcon(name)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Glyph returns the character the page renders for the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconZap:
		return "⚡"
	case IconTrendingUp:
		return "📈"
	case IconUsers:
		return "👥"
	case IconCode:
		return "💻"
	case IconRocket:
		return "🚀"
	case IconTarget:
		return "🎯"
	default:
		return ""
	}
}
