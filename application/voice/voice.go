package voice

import (
	"context"
	"sync"
	"time"

	"github.com/kakilabs/kaki-backend/cmd/config"
	"github.com/kakilabs/kaki-backend/constant"
	"github.com/kakilabs/kaki-backend/model"
	conversationrepo "github.com/kakilabs/kaki-backend/repository/conversation"
	"github.com/kakilabs/kaki-backend/thirdparty/rabbitmq"
	"github.com/kakilabs/kaki-backend/utils/errors"
	"github.com/kakilabs/kaki-backend/utils/logger"
	"go.uber.org/zap"
)

// TranscriptPublisher archives transcript lines off the session path.
type TranscriptPublisher interface {
	PublishTranscript(msg rabbitmq.TranscriptMessage) error
}

// VoiceApp manages voice sessions, one per user. It owns the lifecycle
// state (idle, connecting, connected listening/speaking, error), the
// single-dial guard, and the fixed-attempt fallback to the provider's
// hosted browser page.
type VoiceApp interface {
	Start(ctx context.Context, userID uint64, req *model.StartSessionRequest) (*model.VoiceSessionStatus, error)
	Stop(ctx context.Context, userID uint64) (*model.VoiceSessionStatus, error)
	Status(userID uint64) *model.VoiceSessionStatus
	Classify(text string) *model.Command
	Transcript(ctx context.Context, userID uint64, conversationID string, limit int) ([]model.ConversationMessageEntity, error)
}

type Manager struct {
	cfg           config.VoiceConfig
	driver        Driver
	publisher     TranscriptPublisher
	conversations conversationrepo.ConversationRepository

	mu      sync.Mutex
	entries map[uint64]*entry
}

type entry struct {
	state          constant.SessionState
	mode           constant.SessionMode
	conversationID string
	agentID        string
	attempts       int
	inFlight       bool
	fallbackURL    string
	lastCommand    constant.CommandCategory
	lastError      string
	conn           SessionConn

	// dialSeq identifies the current dial; events carrying an older
	// seq belong to a finished session and are ignored. endedSeq marks
	// the latest seq whose session already ended, so a dial result
	// cannot resurrect an entry the disconnect handler settled first.
	dialSeq  uint64
	endedSeq uint64
}

func NewManager(cfg config.VoiceConfig, driver Driver, publisher TranscriptPublisher, conversations conversationrepo.ConversationRepository) *Manager {
	return &Manager{
		cfg:           cfg,
		driver:        driver,
		publisher:     publisher,
		conversations: conversations,
		entries:       make(map[uint64]*entry),
	}
}

func (m *Manager) Start(ctx context.Context, userID uint64, req *model.StartSessionRequest) (*model.VoiceSessionStatus, error) {
	agentID := m.agentID(req)

	m.mu.Lock()
	e := m.entryLocked(userID)
	if e.inFlight || e.state == constant.SessionStateConnecting || e.state == constant.SessionStateConnected {
		status := e.snapshot()
		m.mu.Unlock()
		return status, errors.SetCustomError(constant.ErrSessionBusy)
	}
	e.inFlight = true
	e.state = constant.SessionStateConnecting
	e.mode = ""
	e.agentID = agentID
	e.conversationID = ""
	e.lastError = ""
	e.dialSeq++
	seq := e.dialSeq
	m.mu.Unlock()

	dialTimeout := m.cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 15 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, err := m.driver.Dial(dialCtx, agentID, req.Metadata, m.sessionEvents(userID, seq))

	m.mu.Lock()
	e.inFlight = false

	if err != nil {
		e.state = constant.SessionStateIdle
		e.mode = ""
		e.lastError = err.Error()
		if e.endedSeq < seq {
			e.attempts++
			if e.attempts >= constant.MaxStartAttempts {
				e.fallbackURL = m.driver.FallbackURL(agentID)
			}
		}
		status := e.snapshot()
		m.mu.Unlock()
		logger.Error("[Start] err driver.Dial",
			zap.Uint64("user_id", userID),
			zap.String("agent_id", agentID),
			zap.Int("attempts", status.Attempts),
			zap.String("error", err.Error()))
		return status, errors.SetCustomError(constant.ErrVoiceUnavailable)
	}

	if e.endedSeq >= seq {
		// The session disconnected (or was stopped) before the dial
		// result landed; the event handler already settled the entry.
		status := e.snapshot()
		m.mu.Unlock()
		_ = conn.Close()
		logger.Warn("[Start] session ended before dial settled",
			zap.Uint64("user_id", userID),
			zap.String("agent_id", agentID),
			zap.Int("attempts", status.Attempts))
		return status, errors.SetCustomError(constant.ErrVoiceUnavailable)
	}

	e.conn = conn
	e.state = constant.SessionStateConnected
	e.attempts = 0
	e.fallbackURL = ""
	status := e.snapshot()
	m.mu.Unlock()
	logger.Info("[Start] session connected", zap.Uint64("user_id", userID), zap.String("agent_id", agentID))
	return status, nil
}

// Stop ends the session. The state is idle afterwards even when the
// underlying close fails; a stuck wrapper is worse than a leaked call.
func (m *Manager) Stop(ctx context.Context, userID uint64) (*model.VoiceSessionStatus, error) {
	m.mu.Lock()
	e := m.entryLocked(userID)
	conn := e.conn
	e.conn = nil
	e.state = constant.SessionStateIdle
	e.mode = ""
	e.conversationID = ""
	e.endedSeq = e.dialSeq
	status := e.snapshot()
	m.mu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Warn("[Stop] err conn.Close", zap.Uint64("user_id", userID), zap.String("error", err.Error()))
		}
	}
	return status, nil
}

func (m *Manager) Status(userID uint64) *model.VoiceSessionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entryLocked(userID).snapshot()
}

func (m *Manager) Classify(text string) *model.Command {
	return Classify(text)
}

// Transcript returns the archived lines of one of the user's past
// conversations.
func (m *Manager) Transcript(ctx context.Context, userID uint64, conversationID string, limit int) ([]model.ConversationMessageEntity, error) {
	if m.conversations == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	conv, err := m.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		logger.Error("[Transcript] err GetConversation", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrBackendUnavailable)
	}
	if conv == nil || conv.UserID != userID {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	messages, err := m.conversations.ListMessages(ctx, conversationID, limit)
	if err != nil {
		logger.Error("[Transcript] err ListMessages", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrBackendUnavailable)
	}
	return messages, nil
}

func (m *Manager) agentID(req *model.StartSessionRequest) string {
	if req != nil && req.Agent == constant.AgentKindCompanion && m.cfg.CompanionAgentID != "" {
		return m.cfg.CompanionAgentID
	}
	return m.cfg.AgentID
}

// entryLocked returns the session entry for a user, creating an idle
// one when absent. Callers hold m.mu.
func (m *Manager) entryLocked(userID uint64) *entry {
	e, ok := m.entries[userID]
	if !ok {
		e = &entry{state: constant.SessionStateIdle}
		m.entries[userID] = e
	}
	return e
}

func (e *entry) snapshot() *model.VoiceSessionStatus {
	return &model.VoiceSessionStatus{
		State:          e.state,
		Mode:           e.mode,
		ConversationID: e.conversationID,
		AgentID:        e.agentID,
		Attempts:       e.attempts,
		FallbackURL:    e.fallbackURL,
		LastCommand:    e.lastCommand,
		LastError:      e.lastError,
	}
}

// sessionEvents reflects driver callbacks into the user's entry.
// Events carrying a seq older than the entry's current dial belong to
// a finished session and are dropped.
func (m *Manager) sessionEvents(userID uint64, seq uint64) SessionEvents {
	return SessionEvents{
		OnConnect: func(conversationID string) {
			m.mu.Lock()
			defer m.mu.Unlock()
			e := m.entryLocked(userID)
			if seq != e.dialSeq {
				return
			}
			e.conversationID = conversationID
			if e.state == constant.SessionStateConnecting {
				e.state = constant.SessionStateConnected
			}
			logger.Info("[OnConnect] conversation started", zap.Uint64("user_id", userID), zap.String("conversation_id", conversationID))
		},
		OnDisconnect: func(reason string) {
			m.mu.Lock()
			defer m.mu.Unlock()
			e := m.entryLocked(userID)
			if seq != e.dialSeq {
				return
			}
			e.endedSeq = seq
			if e.state == constant.SessionStateConnecting {
				e.attempts++
				if e.attempts >= constant.MaxStartAttempts {
					e.fallbackURL = m.driver.FallbackURL(e.agentID)
				}
			}
			e.state = constant.SessionStateIdle
			e.mode = ""
			e.conn = nil
			logger.Info("[OnDisconnect]", zap.Uint64("user_id", userID), zap.String("reason", reason))
		},
		OnError: func(err error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			e := m.entryLocked(userID)
			if seq != e.dialSeq {
				return
			}
			if e.state != constant.SessionStateIdle {
				e.state = constant.SessionStateError
			}
			e.lastError = err.Error()
			logger.Error("[OnError] session error", zap.Uint64("user_id", userID), zap.String("error", err.Error()))
		},
		OnMessage: func(source constant.MessageSource, text string) {
			m.mu.Lock()
			e := m.entryLocked(userID)
			if seq != e.dialSeq {
				m.mu.Unlock()
				return
			}
			conversationID := e.conversationID
			agentID := e.agentID
			if source == constant.SourceUser {
				e.lastCommand = Classify(text).Category
			}
			m.mu.Unlock()

			if m.publisher == nil {
				return
			}
			msg := rabbitmq.TranscriptMessage{
				ConversationID: conversationID,
				UserID:         userID,
				AgentID:        agentID,
				Source:         source,
				Text:           text,
				SentAt:         time.Now().UTC(),
			}
			if err := m.publisher.PublishTranscript(msg); err != nil {
				logger.Error("[OnMessage] err PublishTranscript", zap.String("error", err.Error()))
			}
		},
		OnModeChange: func(mode constant.SessionMode) {
			m.mu.Lock()
			defer m.mu.Unlock()
			e := m.entryLocked(userID)
			if seq != e.dialSeq {
				return
			}
			if e.state == constant.SessionStateConnected {
				e.mode = mode
			}
		},
		OnStatusChange: func(status string) {
			logger.Debug("[OnStatusChange]", zap.Uint64("user_id", userID), zap.String("status", status))
		},
	}
}
