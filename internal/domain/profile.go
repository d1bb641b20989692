package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProfileKind distinguishes the two customer variants the gateway screens.
type ProfileKind string

const (
	KindIndividual ProfileKind = "Individual"
	KindCorporate  ProfileKind = "Corporate"
)

// IDDetail is one identifying document attached to a profile.
type IDDetail struct {
	IDType        string     `json:"idType"`
	IDNumber      string     `json:"idNumber"`
	IssueDate     *time.Time `json:"issueDate,omitempty"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	IssuedCountry string     `json:"issuedCountry,omitempty"`
}

// StringList accepts either a JSON array or a comma-separated string.
// Search categories arrive in both encodings from older clients.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = nil
	for _, part := range strings.Split(single, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			*l = append(*l, trimmed)
		}
	}
	return nil
}

// ApiError captures the detail of a failed or declined screening for
// forensic replay. Present on a profile if and only if the current status
// classifies as an error.
type ApiError struct {
	Event     string          `json:"event"`
	Service   string          `json:"service,omitempty"`
	Field     string          `json:"field,omitempty"`
	Message   string          `json:"message,omitempty"`
	Code      string          `json:"code,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	FullError json.RawMessage `json:"fullError,omitempty"`
}

// Profile is an individual or corporate customer record subject to AML
// screening. The screening pipeline reads the identifying attributes and
// writes Status, ApiStatus, ApiError and ApiResult; everything else belongs
// to the profile service.
type Profile struct {
	ID     uuid.UUID   `json:"id"`
	UserID uuid.UUID   `json:"userId"`
	Kind   ProfileKind `json:"kind"`

	CustomerName string     `json:"customerName"`
	DateOfBirth  *time.Time `json:"dob,omitempty"` // incorporation date for corporates
	Nationality  string     `json:"nationality,omitempty"`
	Country      string     `json:"country"`
	Email        string     `json:"email,omitempty"`
	Mobile       string     `json:"mobile,omitempty"`
	IDDetails    []IDDetail `json:"idDetails,omitempty"`

	SearchCategories StringList `json:"searchCategories,omitempty"`
	MatchScore       int        `json:"matchScore,omitempty"`
	IsExactMatch     bool       `json:"isExactMatch,omitempty"`
	IncludeRelatives bool       `json:"includeRelatives,omitempty"`
	IncludeAliases   bool       `json:"includeAliases,omitempty"`

	Status    string          `json:"status"`
	ApiStatus string          `json:"apiStatus"`
	ApiError  *ApiError       `json:"apiError,omitempty"`
	ApiResult json.RawMessage `json:"apiResult,omitempty"`

	IsDeleted bool       `json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// PrimaryIDNumber returns the first document number, if any. The provider
// payload carries a single identifier.
func (p *Profile) PrimaryIDNumber() string {
	if len(p.IDDetails) == 0 {
		return ""
	}
	return p.IDDetails[0].IDNumber
}
