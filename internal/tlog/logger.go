package tlog

import (
	"fmt"
	"sync"
	"time"
)

// Logger is a component-gated, level-filtered, non-blocking logger.
//
// Rasterizer operations call into Log on every frame; log-level gating
// must never affect control flow, so Log never returns a value a caller
// could branch on and never blocks the scanline compositor.
type Logger struct {
	entries    []Entry
	entriesMu  sync.RWMutex
	maxEntries int
	writeIndex int
	entryCount int

	componentEnabled map[Component]bool
	componentMu      sync.RWMutex

	minLevel LogLevel
	levelMu  sync.RWMutex

	logChan  chan Entry
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// New creates a logger with the given ring-buffer capacity (minimum 100).
// All components are disabled by default; logging is opt-in.
func New(maxEntries int) *Logger {
	if maxEntries < 100 {
		maxEntries = 100
	}

	l := &Logger{
		entries:          make([]Entry, maxEntries),
		maxEntries:       maxEntries,
		componentEnabled: make(map[Component]bool),
		minLevel:         LevelInfo,
		logChan:          make(chan Entry, 1000),
		shutdown:         make(chan struct{}),
	}

	l.componentEnabled[ComponentEngine] = false
	l.componentEnabled[ComponentLayer] = false
	l.componentEnabled[ComponentSprite] = false
	l.componentEnabled[ComponentPalette] = false
	l.componentEnabled[ComponentTileset] = false
	l.componentEnabled[ComponentBlit] = false

	l.wg.Add(1)
	go l.processLogs()

	return l
}

func (l *Logger) processLogs() {
	defer l.wg.Done()
	for {
		select {
		case entry := <-l.logChan:
			l.addEntry(entry)
		case <-l.shutdown:
			for {
				select {
				case entry := <-l.logChan:
					l.addEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) addEntry(entry Entry) {
	l.entriesMu.Lock()
	defer l.entriesMu.Unlock()

	l.entries[l.writeIndex] = entry
	l.writeIndex = (l.writeIndex + 1) % l.maxEntries
	if l.entryCount < l.maxEntries {
		l.entryCount++
	}
}

// Log records a message if component is enabled and level is at least as
// severe as the configured minimum (numerically no greater than it); more
// verbose levels are dropped.
func (l *Logger) Log(component Component, level LogLevel, message string, data map[string]interface{}) {
	l.componentMu.RLock()
	enabled := l.componentEnabled[component]
	l.componentMu.RUnlock()
	if !enabled {
		return
	}

	l.levelMu.RLock()
	minLevel := l.minLevel
	l.levelMu.RUnlock()
	if level > minLevel {
		return
	}

	entry := Entry{Timestamp: time.Now(), Component: component, Level: level, Message: message, Data: data}
	select {
	case l.logChan <- entry:
	default:
		// channel full: drop rather than block the caller
	}
}

// Logf logs a formatted message.
func (l *Logger) Logf(component Component, level LogLevel, format string, args ...interface{}) {
	l.Log(component, level, fmt.Sprintf(format, args...), nil)
}

// GetEntries returns a copy of all buffered entries, oldest first.
func (l *Logger) GetEntries() []Entry {
	l.entriesMu.RLock()
	defer l.entriesMu.RUnlock()

	if l.entryCount == 0 {
		return []Entry{}
	}

	out := make([]Entry, l.entryCount)
	if l.entryCount < l.maxEntries {
		copy(out, l.entries[:l.entryCount])
	} else {
		for i := 0; i < l.entryCount; i++ {
			out[i] = l.entries[(l.writeIndex+i)%l.maxEntries]
		}
	}
	return out
}

// GetRecentEntries returns the most recent count entries.
func (l *Logger) GetRecentEntries(count int) []Entry {
	all := l.GetEntries()
	if count >= len(all) {
		return all
	}
	return all[len(all)-count:]
}

// Clear empties the ring buffer.
func (l *Logger) Clear() {
	l.entriesMu.Lock()
	defer l.entriesMu.Unlock()
	l.entryCount = 0
	l.writeIndex = 0
}

// SetComponentEnabled toggles logging for a component.
func (l *Logger) SetComponentEnabled(component Component, enabled bool) {
	l.componentMu.Lock()
	defer l.componentMu.Unlock()
	l.componentEnabled[component] = enabled
}

// IsComponentEnabled reports whether a component currently logs.
func (l *Logger) IsComponentEnabled(component Component) bool {
	l.componentMu.RLock()
	defer l.componentMu.RUnlock()
	return l.componentEnabled[component]
}

// SetMinLevel sets the least severe level that still passes the filter;
// levels numerically above it (more verbose) are dropped.
func (l *Logger) SetMinLevel(level LogLevel) {
	l.levelMu.Lock()
	defer l.levelMu.Unlock()
	l.minLevel = level
}

// GetMinLevel returns the current minimum level.
func (l *Logger) GetMinLevel() LogLevel {
	l.levelMu.RLock()
	defer l.levelMu.RUnlock()
	return l.minLevel
}

// Shutdown drains pending entries and stops the background goroutine.
func (l *Logger) Shutdown() {
	close(l.shutdown)
	l.wg.Wait()
}
