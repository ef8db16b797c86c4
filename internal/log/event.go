package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventNewRound EventType = iota
	EventShuffle
	EventDraw
	EventPlay
	EventActivate
	EventBurn
	EventSummon
	EventRevive
	EventFizzle
	EventPass
	EventAutoPass
	EventRejected
	EventSendToGraveyard
	EventRoundEnd
	EventWin
	EventTie
	EventTurnLimit
)

func (e EventType) String() string {
	switch e {
	case EventNewRound:
		return "NewRound"
	case EventShuffle:
		return "Shuffle"
	case EventDraw:
		return "Draw"
	case EventPlay:
		return "Play"
	case EventActivate:
		return "Activate"
	case EventBurn:
		return "Burn"
	case EventSummon:
		return "Summon"
	case EventRevive:
		return "Revive"
	case EventFizzle:
		return "Fizzle"
	case EventPass:
		return "Pass"
	case EventAutoPass:
		return "AutoPass"
	case EventRejected:
		return "Rejected"
	case EventSendToGraveyard:
		return "SendToGraveyard"
	case EventRoundEnd:
		return "RoundEnd"
	case EventWin:
		return "Win"
	case EventTie:
		return "Tie"
	case EventTurnLimit:
		return "TurnLimit"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Round   int       // which round (1-based)
	Player  int       // acting seat (0 = top, 1 = bottom)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Row     string    // row name (if applicable)
	Details string    // human-readable detail string
}
