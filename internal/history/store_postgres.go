package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"amlgate/internal/domain"
)

// PostgresStore persists history entries. Entries are insert-only; there is
// no update path by design.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry domain.SearchHistoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history (id, user_id, query, search_type, profile_id, full_query, api_result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.UserID, entry.Query, string(entry.SearchType), entry.ProfileID,
		nullableJSON(entry.FullQuery), nullableJSON(entry.ApiResult), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert search history: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SearchHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, query, search_type, profile_id, full_query, api_result, created_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	defer rows.Close()

	var entries []domain.SearchHistoryEntry
	for rows.Next() {
		var entry domain.SearchHistoryEntry
		var searchType string
		var fullQuery, apiResult []byte
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Query, &searchType,
			&entry.ProfileID, &fullQuery, &apiResult, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan search history: %w", err)
		}
		entry.SearchType = domain.ProfileKind(searchType)
		entry.FullQuery = fullQuery
		entry.ApiResult = apiResult
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM search_history WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear search history: %w", err)
	}
	return result.RowsAffected()
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
