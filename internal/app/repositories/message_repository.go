package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cankurt/chatcore/internal/app/models"
	"github.com/cankurt/chatcore/internal/db"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
)

// mentionPattern matches @name tokens in message content. Captured names are
// resolved against the user directory by exact match; anything that does not
// resolve is dropped silently.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// extractMentionTokens returns the names captured from @-tokens in content.
func extractMentionTokens(content string) []string {
	if !strings.Contains(content, "@") {
		return nil
	}

	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// MessageRepository handles database operations for messages, including the
// reaction/mention enrichment on reads and mention extraction on writes.
type MessageRepository struct {
	db *db.PostgresDB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(database *db.PostgresDB) *MessageRepository {
	return &MessageRepository{db: database}
}

const messageWithSenderColumns = `
	m.id, m.conversation_id, m.sender_id, m.content, m.type, m.reply_to_id,
	m.attachments, m.is_edited, m.is_deleted, m.deleted_at, m.metadata,
	m.created_at, m.updated_at,
	u.id, u.name, u.email, u.created_at, u.updated_at
`

// conversationMessagesQuery builds the page fetch for one conversation:
// newest first by id, limit+1 rows, optionally below a cursor. Pagination
// orders by id, not created_at: ids are assigned in insert order, while
// created_at is transaction-start time and can tie or invert between
// concurrent senders. With an `id < cursor` predicate an id-ordered fetch
// never repeats or skips a row across pages.
func conversationMessagesQuery(conversationID, cursor int64, limit int) squirrel.SelectBuilder {
	query := squirrel.Select().
		Column(squirrel.Expr(messageWithSenderColumns)).
		From("messages m").
		Join("users u ON m.sender_id = u.id").
		Where("m.conversation_id = ?", conversationID).
		OrderBy("m.id DESC").
		Limit(uint64(limit + 1)).
		PlaceholderFormat(squirrel.Dollar)

	if cursor > 0 {
		query = query.Where("m.id < ?", cursor)
	}

	return query
}

// GetConversationMessages retrieves one page of a conversation's messages for
// an active participant. The cursor is strictly decreasing: when supplied,
// only messages with a smaller id are returned. The page is fetched newest
// first (limit+1, trimmed), enriched with reply targets, reactions and
// mentions from three batched queries, and reversed to ascending id order
// before returning. hasMore reports whether an older page exists.
func (r *MessageRepository) GetConversationMessages(ctx context.Context, conversationID, userID, cursor int64, limit int) ([]*models.Message, bool, error) {
	if err := requireActiveParticipant(ctx, r.db.Pool, conversationID, userID); err != nil {
		return nil, false, err
	}

	sql, args, err := conversationMessagesQuery(conversationID, cursor, limit).ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, false, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		message, err := scanMessageWithSender(rows)
		if err != nil {
			return nil, false, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("error iterating rows: %w", err)
	}

	messages, hasMore := trimPage(messages, limit)

	if err := r.enrichMessages(ctx, messages); err != nil {
		return nil, false, err
	}

	// Pages are served oldest to newest
	oldestFirst(messages)

	return messages, hasMore, nil
}

// enrichMessages attaches reply targets, reactions and mentions to a fetched
// page using batched queries keyed by the page's message ids. A message with
// no matching relation simply keeps its empty fields.
func (r *MessageRepository) enrichMessages(ctx context.Context, messages []*models.Message) error {
	if len(messages) == 0 {
		return nil
	}

	messageIDs := make([]int64, 0, len(messages))
	var replyToIDs []int64
	for _, m := range messages {
		messageIDs = append(messageIDs, m.ID)
		if m.ReplyToID != nil {
			replyToIDs = append(replyToIDs, *m.ReplyToID)
		}
	}

	replyTargets, err := r.getMessagesByIDs(ctx, replyToIDs)
	if err != nil {
		return err
	}

	reactions, err := r.getReactionsByMessageIDs(ctx, messageIDs)
	if err != nil {
		return err
	}

	mentions, err := r.getMentionsByMessageIDs(ctx, messageIDs)
	if err != nil {
		return err
	}

	for _, m := range messages {
		if m.ReplyToID != nil {
			m.ReplyTo = replyTargets[*m.ReplyToID]
		}
		m.Reactions = reactions[m.ID]
		m.Mentions = mentions[m.ID]
	}

	return nil
}

// getMessagesByIDs retrieves messages with their senders, keyed by id.
// Reply targets are resolved one level deep only; the returned messages carry
// no relations of their own.
func (r *MessageRepository) getMessagesByIDs(ctx context.Context, ids []int64) (map[int64]*models.Message, error) {
	result := make(map[int64]*models.Message)
	if len(ids) == 0 {
		return result, nil
	}

	query := squirrel.Select().
		Column(squirrel.Expr(messageWithSenderColumns)).
		From("messages m").
		Join("users u ON m.sender_id = u.id").
		Where(squirrel.Eq{"m.id": ids}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		message, err := scanMessageWithSender(rows)
		if err != nil {
			return nil, err
		}
		result[message.ID] = message
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// getReactionsByMessageIDs retrieves reactions with their users for a set of
// messages, grouped by message id.
func (r *MessageRepository) getReactionsByMessageIDs(ctx context.Context, messageIDs []int64) (map[int64][]*models.MessageReaction, error) {
	result := make(map[int64][]*models.MessageReaction)
	if len(messageIDs) == 0 {
		return result, nil
	}

	query := squirrel.Select(
		"r.message_id", "r.user_id", "r.emoji", "r.created_at",
		"u.id", "u.name", "u.email", "u.created_at", "u.updated_at",
	).
		From("message_reactions r").
		Join("users u ON r.user_id = u.id").
		Where(squirrel.Eq{"r.message_id": messageIDs}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reaction models.MessageReaction
		var user models.User
		err := rows.Scan(
			&reaction.MessageID, &reaction.UserID, &reaction.Emoji, &reaction.CreatedAt,
			&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning reaction row: %w", err)
		}
		reaction.User = &user
		result[reaction.MessageID] = append(result[reaction.MessageID], &reaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// getMentionsByMessageIDs retrieves mentions with the mentioned users for a
// set of messages, grouped by message id.
func (r *MessageRepository) getMentionsByMessageIDs(ctx context.Context, messageIDs []int64) (map[int64][]*models.MessageMention, error) {
	result := make(map[int64][]*models.MessageMention)
	if len(messageIDs) == 0 {
		return result, nil
	}

	query := squirrel.Select(
		"mn.message_id", "mn.mentioned_user_id", "mn.is_read", "mn.read_at", "mn.created_at",
		"u.id", "u.name", "u.email", "u.created_at", "u.updated_at",
	).
		From("message_mentions mn").
		Join("users u ON mn.mentioned_user_id = u.id").
		Where(squirrel.Eq{"mn.message_id": messageIDs}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mention models.MessageMention
		var user models.User
		err := rows.Scan(
			&mention.MessageID, &mention.MentionedUserID, &mention.IsRead, &mention.ReadAt, &mention.CreatedAt,
			&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning mention row: %w", err)
		}
		mention.MentionedUser = &user
		result[mention.MessageID] = append(result[mention.MessageID], &mention)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// GetLastMessagesByConversationIDs retrieves each conversation's newest
// message with its sender in one batched query, keyed by conversation id.
func (r *MessageRepository) GetLastMessagesByConversationIDs(ctx context.Context, conversationIDs []int64) (map[int64]*models.Message, error) {
	result := make(map[int64]*models.Message)
	if len(conversationIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT DISTINCT ON (m.conversation_id)` + messageWithSenderColumns + `
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.conversation_id = ANY($1)
		ORDER BY m.conversation_id, m.id DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, conversationIDs)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		message, err := scanMessageWithSender(rows)
		if err != nil {
			return nil, err
		}
		result[message.ConversationID] = message
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// Send inserts a message in a single transaction: the sender must be an
// active participant, the conversation's last_message_at and message_count
// are advanced (server-side increment, safe under concurrent senders), and
// every resolvable @-mention in the content becomes a mention row. The
// operation is not idempotent and must not be blindly retried.
func (r *MessageRepository) Send(ctx context.Context, message *models.Message) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireActiveParticipant(ctx, tx, message.ConversationID, message.SenderID); err != nil {
			return err
		}

		attachments, err := marshalJSONField(message.Attachments)
		if err != nil {
			return fmt.Errorf("error encoding attachments: %w", err)
		}
		metadata, err := marshalJSONField(message.Metadata)
		if err != nil {
			return fmt.Errorf("error encoding metadata: %w", err)
		}

		insertSQL := `
			INSERT INTO messages (conversation_id, sender_id, content, type, reply_to_id, attachments, metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, is_edited, is_deleted, created_at, updated_at
		`

		err = tx.QueryRow(ctx, insertSQL,
			message.ConversationID,
			message.SenderID,
			message.Content,
			message.Type,
			message.ReplyToID,
			attachments,
			metadata,
		).Scan(
			&message.ID,
			&message.IsEdited,
			&message.IsDeleted,
			&message.CreatedAt,
			&message.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error creating message: %w", err)
		}

		// message_count is incremented in SQL, never read-modify-write
		updateSQL := `
			UPDATE conversations
			SET last_message_at = NOW(), message_count = message_count + 1, updated_at = NOW()
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, updateSQL, message.ConversationID); err != nil {
			return fmt.Errorf("error updating conversation: %w", err)
		}

		if message.Content != nil {
			if err := r.createMentions(ctx, tx, message.ID, *message.Content); err != nil {
				return err
			}
		}

		return nil
	})
}

// createMentions scans content for @-tokens, resolves them against the user
// directory and inserts mention rows. Duplicate tokens collapse on the
// (message, user) key; unresolved tokens are ignored.
func (r *MessageRepository) createMentions(ctx context.Context, tx pgx.Tx, messageID int64, content string) error {
	names := extractMentionTokens(content)
	if len(names) == 0 {
		return nil
	}

	userIDs, err := resolveUserIDsByNames(ctx, tx, names)
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	insert := squirrel.Insert("message_mentions").
		Columns("message_id", "mentioned_user_id").
		Suffix("ON CONFLICT (message_id, mentioned_user_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	for _, userID := range userIDs {
		insert = insert.Values(messageID, userID)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating mentions: %w", err)
	}

	return nil
}

// Update edits a message. Only the original sender may edit, and a deleted
// message can never be edited again. is_edited is set on every successful
// edit, content change or not.
func (r *MessageRepository) Update(ctx context.Context, userID, messageID int64, content *string, metadata map[string]interface{}) error {
	var senderID int64
	var isDeleted bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT sender_id, is_deleted FROM messages WHERE id = $1`, messageID,
	).Scan(&senderID, &isDeleted)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewResourceNotFoundError("Message not found")
		}
		return fmt.Errorf("error retrieving message: %w", err)
	}

	if senderID != userID {
		return apperrors.NewForbiddenError("Only the sender can edit a message")
	}
	if isDeleted {
		return apperrors.NewCustomError(apperrors.ErrMessageDeleted, "Deleted messages cannot be edited")
	}

	update := squirrel.Update("messages").
		Set("is_edited", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", messageID).
		PlaceholderFormat(squirrel.Dollar)

	if content != nil {
		update = update.Set("content", *content)
	}
	if metadata != nil {
		encoded, err := marshalJSONField(metadata)
		if err != nil {
			return fmt.Errorf("error encoding metadata: %w", err)
		}
		update = update.Set("metadata", encoded)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating message: %w", err)
	}

	return nil
}

// SoftDelete marks a message deleted and clears its content. Permitted for
// the sender, or for participants holding a moderating role in the message's
// conversation. There is no un-delete.
func (r *MessageRepository) SoftDelete(ctx context.Context, userID, messageID int64) error {
	var senderID int64
	var conversationID int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT sender_id, conversation_id FROM messages WHERE id = $1`, messageID,
	).Scan(&senderID, &conversationID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewResourceNotFoundError("Message not found")
		}
		return fmt.Errorf("error retrieving message: %w", err)
	}

	role, err := getParticipantRole(ctx, r.db.Pool, conversationID, userID)
	if err != nil {
		return err
	}

	if senderID != userID && !role.CanModerate() {
		return apperrors.NewForbiddenError("User is not allowed to delete this message")
	}

	deleteSQL := `
		UPDATE messages
		SET is_deleted = TRUE, deleted_at = NOW(), content = NULL, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.Pool.Exec(ctx, deleteSQL, messageID); err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}

	return nil
}

// Search retrieves non-deleted messages matching a query across the user's
// active conversations, newest first. Plain substring matching; no ranking.
func (r *MessageRepository) Search(ctx context.Context, userID int64, search string, conversationIDs []int64, limit, offset int) ([]*models.Message, error) {
	query := squirrel.Select().
		Column(squirrel.Expr(messageWithSenderColumns)).
		From("messages m").
		Join("users u ON m.sender_id = u.id").
		Join("participants p ON m.conversation_id = p.conversation_id").
		Where("p.user_id = ?", userID).
		Where("p.is_active = TRUE").
		Where("m.is_deleted = FALSE").
		Where("m.content ILIKE ?", "%"+search+"%").
		OrderBy("m.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	if len(conversationIDs) > 0 {
		query = query.Where(squirrel.Eq{"m.conversation_id": conversationIDs})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		message, err := scanMessageWithSender(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return messages, nil
}

// scanMessageWithSender scans a message row joined with its sender.
func scanMessageWithSender(rows pgx.Rows) (*models.Message, error) {
	var m models.Message
	var sender models.User
	var attachments, metadata []byte

	err := rows.Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Type, &m.ReplyToID,
		&attachments, &m.IsEdited, &m.IsDeleted, &m.DeletedAt, &metadata,
		&m.CreatedAt, &m.UpdatedAt,
		&sender.ID, &sender.Name, &sender.Email, &sender.CreatedAt, &sender.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning message row: %w", err)
	}

	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &m.Attachments); err != nil {
			return nil, fmt.Errorf("error decoding attachments: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &m.Metadata); err != nil {
			return nil, fmt.Errorf("error decoding metadata: %w", err)
		}
	}

	m.Sender = &sender
	return &m, nil
}

// marshalJSONField encodes a value for a jsonb column, mapping Go nil to SQL NULL.
func marshalJSONField(v interface{}) ([]byte, error) {
	switch value := v.(type) {
	case []models.Attachment:
		if value == nil {
			return nil, nil
		}
	case map[string]interface{}:
		if value == nil {
			return nil, nil
		}
	case nil:
		return nil, nil
	}
	return json.Marshal(v)
}
