package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	kind := e.Type.String()
	for len(kind) < 16 {
		kind += " "
	}
	return fmt.Sprintf("R%-2d %s| %s", e.Round, kind, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewRoundEvent(round int, opener int, openerName string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  opener,
		Type:    EventNewRound,
		Details: fmt.Sprintf("=== Round %d (%s opens) ===", round, openerName),
	}
}

func NewShuffleEvent(round int, player int, name string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffled their deck", name),
	}
}

func NewDrawEvent(round int, player int, name string, count int, source string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventDraw,
		Details: fmt.Sprintf("%s draws %d card(s) from %s", name, count, source),
	}
}

func NewPlayEvent(round int, player int, name string, cardName string, strength int, row string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventPlay,
		Card:    cardName,
		Row:     row,
		Details: fmt.Sprintf("%s plays %s (Str %d) into %s", name, cardName, strength, row),
	}
}

func NewActivateEvent(round int, player int, name string, cardName string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventActivate,
		Card:    cardName,
		Details: fmt.Sprintf("%s activates %s", name, cardName),
	}
}

func NewBurnEvent(round int, player int, name string, cardName string, row string, victim string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventBurn,
		Card:    cardName,
		Row:     row,
		Details: fmt.Sprintf("%s burns %s's %s in %s", name, victim, cardName, row),
	}
}

func NewSummonEvent(round int, player int, name string, cardName string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventSummon,
		Card:    cardName,
		Details: fmt.Sprintf("%s summons %s from the deck", name, cardName),
	}
}

func NewReviveEvent(round int, player int, name string, cardName string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventRevive,
		Card:    cardName,
		Details: fmt.Sprintf("%s revives %s from the graveyard", name, cardName),
	}
}

func NewFizzleEvent(round int, player int, cardName string, reason string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventFizzle,
		Card:    cardName,
		Details: fmt.Sprintf("%s has no effect (%s)", cardName, reason),
	}
}

func NewPassEvent(round int, player int, name string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventPass,
		Details: fmt.Sprintf("%s passes", name),
	}
}

func NewAutoPassEvent(round int, player int, name string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventAutoPass,
		Details: fmt.Sprintf("%s passed due to no cards to play", name),
	}
}

func NewRejectedEvent(round int, player int, name string, reason string) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventRejected,
		Details: fmt.Sprintf("%s move rejected: %s", name, reason),
	}
}

func NewSendToGraveyardEvent(round int, player int, name string, count int) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventSendToGraveyard,
		Details: fmt.Sprintf("%d card(s) sent to %s's graveyard", count, name),
	}
}

func NewRoundEndEvent(round int, topName string, topRows int, bottomName string, bottomRows int, winners []string) GameEvent {
	details := fmt.Sprintf("Round %d: %s %d row(s), %s %d row(s)", round, topName, topRows, bottomName, bottomRows)
	if len(winners) == 2 {
		details += " (draw, one point to both players)"
	} else if len(winners) == 1 {
		details += fmt.Sprintf(" (%s wins the round)", winners[0])
	}
	return GameEvent{
		Round:   round,
		Player:  -1,
		Type:    EventRoundEnd,
		Details: details,
	}
}

func NewWinEvent(round int, winner int, name string, topRounds, bottomRounds int) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins the game! (%d-%d)", name, topRounds, bottomRounds),
	}
}

func NewTieEvent(round int, topRounds, bottomRounds int) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  -1,
		Type:    EventTie,
		Details: fmt.Sprintf("Draw - no one won the game (%d-%d)", topRounds, bottomRounds),
	}
}

func NewTurnLimitEvent(round int, limit int) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  -1,
		Type:    EventTurnLimit,
		Details: fmt.Sprintf("Turn limit reached (%d turns)", limit),
	}
}
