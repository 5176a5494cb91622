package postgres

import (
	"context"
	"fmt"

	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/pkg/database"
	apperrors "github.com/mistvale/storefront/pkg/errors"
)

// MessageRepository implements repository.MessageRepository using PostgreSQL.
type MessageRepository struct {
	pool database.DBTX
}

// NewMessageRepository creates a new PostgreSQL-backed message repository.
func NewMessageRepository(pool database.DBTX) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create inserts a new contact message.
func (r *MessageRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, subject, body, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.Name,
		m.Email,
		m.Subject,
		m.Body,
		m.Read,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}

	return nil
}

// List returns a page of messages, newest first, plus the total count.
func (r *MessageRepository) List(ctx context.Context, unreadOnly bool, page, perPage int) ([]domain.ContactMessage, int, error) {
	whereClause := ""
	if unreadOnly {
		whereClause = "WHERE read = FALSE"
	}

	if perPage <= 0 {
		perPage = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * perPage
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, subject, body, read, created_at,
			   count(*) OVER() AS total_count
		FROM contact_messages
		%s
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		whereClause,
	)

	rows, err := r.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var (
		messages   []domain.ContactMessage
		totalCount int
	)

	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Email,
			&m.Subject,
			&m.Body,
			&m.Read,
			&m.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan contact message row: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contact message rows: %w", err)
	}

	if messages == nil {
		messages = []domain.ContactMessage{}
	}

	return messages, totalCount, nil
}

// MarkRead flags a message as read.
func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE contact_messages SET read = TRUE WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark contact message read: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("message", id)
	}

	return nil
}

// Delete removes a message.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM contact_messages WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("message", id)
	}

	return nil
}
