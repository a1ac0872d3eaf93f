package conversation

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/kakilabs/kaki-backend/model"
)

type SQL struct {
	conn *sqlx.DB
}

// ConversationRepository persists voice transcripts. Writes happen from
// the transcript consumer, inside a transaction so a conversation row
// always exists before its first message.
type ConversationRepository interface {
	UpsertConversationTx(ctx context.Context, tx *sqlx.Tx, conv *model.ConversationEntity) error
	InsertMessageTx(ctx context.Context, tx *sqlx.Tx, msg *model.ConversationMessageEntity) error
	GetConversation(ctx context.Context, id string) (*model.ConversationEntity, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]model.ConversationMessageEntity, error)
}

func NewConversationRepository(conn *sqlx.DB) ConversationRepository {
	return &SQL{conn: conn}
}

const (
	upsertConversationQuery = `INSERT INTO conversations (id, user_id, agent_id, started_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE user_id = user_id`
	insertMessageQuery   = `INSERT INTO conversation_messages (conversation_id, source, content, created_at) VALUES (?, ?, ?, ?)`
	getConversationQuery = `SELECT id, user_id, agent_id, started_at FROM conversations WHERE id = ?`
	listMessagesQuery    = `SELECT id, conversation_id, source, content, created_at FROM conversation_messages
		WHERE conversation_id = ? ORDER BY id ASC LIMIT ?`
)

func (s *SQL) UpsertConversationTx(ctx context.Context, tx *sqlx.Tx, conv *model.ConversationEntity) error {
	_, err := tx.ExecContext(ctx, upsertConversationQuery, conv.ID, conv.UserID, conv.AgentID, conv.StartedAt)
	return err
}

func (s *SQL) InsertMessageTx(ctx context.Context, tx *sqlx.Tx, msg *model.ConversationMessageEntity) error {
	_, err := tx.ExecContext(ctx, insertMessageQuery, msg.ConversationID, msg.Source, msg.Content, msg.CreatedAt)
	return err
}

func (s *SQL) GetConversation(ctx context.Context, id string) (*model.ConversationEntity, error) {
	var entity model.ConversationEntity
	if err := s.conn.QueryRowxContext(ctx, getConversationQuery, id).StructScan(&entity); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (s *SQL) ListMessages(ctx context.Context, conversationID string, limit int) ([]model.ConversationMessageEntity, error) {
	if limit <= 0 {
		limit = 100
	}
	var messages []model.ConversationMessageEntity
	if err := s.conn.SelectContext(ctx, &messages, listMessagesQuery, conversationID, limit); err != nil {
		return nil, err
	}
	return messages, nil
}
