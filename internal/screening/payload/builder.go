// Package payload derives the provider request from a profile snapshot.
// Building is a pure transform: no I/O, no mutation of the profile.
package payload

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"amlgate/internal/domain"
)

// Request is the JSON body sent to the external screening provider. Only
// the fields the gateway consumes are typed; everything the provider sends
// back passes through as opaque apiResult.
type Request struct {
	Reference        string   `json:"reference"`
	FirstName        string   `json:"first_name,omitempty"`
	LastName         string   `json:"last_name,omitempty"`
	BusinessName     string   `json:"business_name,omitempty"`
	DateOfBirth      string   `json:"dob,omitempty"`
	Country          string   `json:"country"`
	IDNumber         string   `json:"id_number,omitempty"`
	Filters          []string `json:"filters"`
	MatchScore       int      `json:"match_score,omitempty"`
	ExactMatch       bool     `json:"exact_match,omitempty"`
	IncludeRelatives bool     `json:"include_relatives,omitempty"`
	IncludeAliases   bool     `json:"include_aliases,omitempty"`
}

// DefaultFilters is the category set used when a profile carries none.
var DefaultFilters = []string{"sanction", "warning", "fitness-probity", "pep"}

// Builder turns profiles into provider requests. The country map is
// injected so tests can substitute custom mappings.
type Builder struct {
	countryCodes map[string]string
	logger       *slog.Logger
	now          func() time.Time
}

type Option func(*Builder)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithCountryCodes replaces the country name -> ISO 3166-1 alpha-2 lookup.
func WithCountryCodes(codes map[string]string) Option {
	return func(b *Builder) {
		b.countryCodes = codes
	}
}

// WithClock overrides the timestamp source used in request references.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

func New(opts ...Option) *Builder {
	b := &Builder{
		countryCodes: countryCodes,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives the provider request for one screening attempt. The
// embedded reference is unique per attempt, so two builds of the same
// snapshot differ only there.
func (b *Builder) Build(profile *domain.Profile) Request {
	req := Request{
		Reference:        fmt.Sprintf("%s-%d", profile.ID, b.now().UnixNano()),
		Country:          b.countryCode(profile.Country),
		IDNumber:         profile.PrimaryIDNumber(),
		Filters:          b.filters(profile),
		MatchScore:       profile.MatchScore,
		ExactMatch:       profile.IsExactMatch,
		IncludeRelatives: profile.IncludeRelatives,
		IncludeAliases:   profile.IncludeAliases,
	}

	if profile.Kind == domain.KindCorporate {
		req.BusinessName = strings.TrimSpace(profile.CustomerName)
	} else {
		req.FirstName, req.LastName = splitName(profile.CustomerName)
	}
	if profile.DateOfBirth != nil {
		req.DateOfBirth = profile.DateOfBirth.Format("2006-01-02")
	}
	return req
}

// countryCode resolves a display name to its 2-letter code. Unmapped names
// encode as empty rather than failing the build.
func (b *Builder) countryCode(name string) string {
	if name == "" {
		return ""
	}
	if code, ok := b.countryCodes[name]; ok {
		return code
	}
	if b.logger != nil {
		b.logger.Warn("unmapped country name", "country", name)
	}
	return ""
}

func (b *Builder) filters(profile *domain.Profile) []string {
	if len(profile.SearchCategories) == 0 {
		return append([]string(nil), DefaultFilters...)
	}
	return append([]string(nil), profile.SearchCategories...)
}

// splitName breaks a display name into the discrete first/last fields the
// provider requires for individuals. Everything after the first token is
// the last name; single-token names leave it empty.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
