package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"amlgate/internal/domain"
)

// PostgresStore persists profiles. Soft deletion is a flag filtered in every
// read; rows are never physically removed here.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const profileColumns = `
	id, user_id, kind, customer_name, date_of_birth, nationality, country,
	email, mobile, id_details, search_categories, match_score, is_exact_match,
	include_relatives, include_aliases, status, api_status, api_error,
	api_result, is_deleted, deleted_at, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, profile *domain.Profile) error {
	idDetails, err := json.Marshal(profile.IDDetails)
	if err != nil {
		return fmt.Errorf("marshal id details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23)`,
		profile.ID, profile.UserID, string(profile.Kind), profile.CustomerName,
		profile.DateOfBirth, profile.Nationality, profile.Country,
		profile.Email, profile.Mobile, idDetails,
		pq.Array([]string(profile.SearchCategories)), profile.MatchScore,
		profile.IsExactMatch, profile.IncludeRelatives, profile.IncludeAliases,
		profile.Status, profile.ApiStatus, marshalAPIError(profile.ApiError),
		nullableJSON(profile.ApiResult), profile.IsDeleted, profile.DeletedAt,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)
	return scanProfile(row)
}

func (s *PostgresStore) List(ctx context.Context, userID uuid.UUID, kind domain.ProfileKind) ([]*domain.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1 AND is_deleted = FALSE`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC`

	return s.queryProfiles(ctx, query, args...)
}

func (s *PostgresStore) SearchByName(ctx context.Context, userID uuid.UUID, kind domain.ProfileKind, name string) ([]*domain.Profile, error) {
	return s.queryProfiles(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE user_id = $1 AND kind = $2 AND is_deleted = FALSE
		  AND customer_name ILIKE '%' || $3 || '%'
		ORDER BY created_at DESC`,
		userID, string(kind), name,
	)
}

// ApplyScreeningResult writes the four screening fields in a single update.
// Last write wins when concurrent screenings race on one profile.
func (s *PostgresStore) ApplyScreeningResult(ctx context.Context, id uuid.UUID, update ScreeningUpdate) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE profiles
		SET status = $2, api_status = $3, api_error = $4, api_result = $5, updated_at = $6
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+profileColumns,
		id, update.Status, update.ApiStatus, marshalAPIError(update.ApiError),
		nullableJSON(update.ApiResult), time.Now().UTC(),
	)
	return scanProfile(row)
}

func (s *PostgresStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET is_deleted = TRUE, deleted_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context, rawStatus string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM profiles WHERE status = $1 AND is_deleted = FALSE`,
		rawStatus,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count profiles by status: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) queryProfiles(ctx context.Context, query string, args ...any) ([]*domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var profile domain.Profile
	var kind string
	var idDetails, apiError, apiResult []byte
	var categories pq.StringArray

	err := row.Scan(
		&profile.ID, &profile.UserID, &kind, &profile.CustomerName,
		&profile.DateOfBirth, &profile.Nationality, &profile.Country,
		&profile.Email, &profile.Mobile, &idDetails, &categories,
		&profile.MatchScore, &profile.IsExactMatch, &profile.IncludeRelatives,
		&profile.IncludeAliases, &profile.Status, &profile.ApiStatus,
		&apiError, &apiResult, &profile.IsDeleted, &profile.DeletedAt,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	profile.Kind = domain.ProfileKind(kind)
	profile.SearchCategories = domain.StringList(categories)
	if len(idDetails) > 0 {
		if err := json.Unmarshal(idDetails, &profile.IDDetails); err != nil {
			return nil, fmt.Errorf("unmarshal id details: %w", err)
		}
	}
	if len(apiError) > 0 {
		profile.ApiError = &domain.ApiError{}
		if err := json.Unmarshal(apiError, profile.ApiError); err != nil {
			return nil, fmt.Errorf("unmarshal api error: %w", err)
		}
	}
	profile.ApiResult = apiResult
	return &profile, nil
}

func marshalAPIError(apiError *domain.ApiError) any {
	if apiError == nil {
		return nil
	}
	raw, err := json.Marshal(apiError)
	if err != nil {
		return nil
	}
	return raw
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
