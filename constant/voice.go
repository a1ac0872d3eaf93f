package constant

// SessionState is the lifecycle state of a voice session.
type SessionState string

const (
	SessionStateIdle       SessionState = "idle"
	SessionStateConnecting SessionState = "connecting"
	SessionStateConnected  SessionState = "connected"
	SessionStateError      SessionState = "error"
)

// SessionMode is the audio direction while connected.
type SessionMode string

const (
	SessionModeListening SessionMode = "listening"
	SessionModeSpeaking  SessionMode = "speaking"
)

// CommandCategory is the task a classified voice command maps to.
type CommandCategory string

const (
	CategoryRide      CommandCategory = "ride"
	CategoryFood      CommandCategory = "food"
	CategoryGrocery   CommandCategory = "grocery"
	CategoryBills     CommandCategory = "bills"
	CategoryCompanion CommandCategory = "companion"
)

// AgentKind selects which configured agent a session talks to.
type AgentKind string

const (
	AgentKindMain      AgentKind = "main"
	AgentKindCompanion AgentKind = "companion"
)

// MaxStartAttempts is how many consecutive failed session starts are
// tolerated before the browser fallback is offered.
const MaxStartAttempts = 3

// MessageSource identifies who produced a transcript line.
type MessageSource string

const (
	SourceUser  MessageSource = "user"
	SourceAgent MessageSource = "agent"
)
