package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SearchHistoryEntry is one immutable record of a screening attempt,
// attributed to the user who triggered it. Entries are never updated;
// the only removal path is a bulk clear scoped to a user.
type SearchHistoryEntry struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	Query      string          `json:"query"`
	SearchType ProfileKind     `json:"searchType"`
	ProfileID  uuid.UUID       `json:"profileId"`
	FullQuery  json.RawMessage `json:"fullQuery,omitempty"`
	ApiResult  json.RawMessage `json:"apiResult,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}
