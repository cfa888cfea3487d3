package tlog

import "time"

// LogLevel controls verbosity filtering, independent of component gating.
type LogLevel int

const (
	LevelNone LogLevel = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l LogLevel) String() string {
	switch l {
	case LevelNone:
		return "NONE"
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Component identifies the subsystem that produced a log entry.
type Component string

const (
	ComponentEngine  Component = "Engine"
	ComponentLayer   Component = "Layer"
	ComponentSprite  Component = "Sprite"
	ComponentPalette Component = "Palette"
	ComponentTileset Component = "Tileset"
	ComponentBlit    Component = "Blit"
)

// Entry is a single recorded log line.
type Entry struct {
	Timestamp time.Time
	Component Component
	Level     LogLevel
	Message   string
	Data      map[string]interface{}
}

// Format renders an entry the way a terminal or log viewer would display it.
func (e Entry) Format() string {
	return e.Timestamp.Format("15:04:05.000") + " [" + string(e.Component) + "] " + e.Level.String() + ": " + e.Message
}
