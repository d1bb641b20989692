//go:build integration

package profile_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"amlgate/internal/domain"
	"amlgate/internal/profile"
	"amlgate/pkg/testutil/containers"
)

type ProfileCacheSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *containers.RedisContainer
	cache    *profile.RedisCache
}

func TestProfileCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProfileCacheSuite))
}

func (s *ProfileCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.redis = mgr.GetRedis(s.T())
	s.cache = profile.NewRedisCache(s.redis.Client, 5*time.Minute, nil)
}

func (s *ProfileCacheSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))
	s.Require().NoError(s.postgres.TruncateTables(ctx, "profiles"))
}

func (s *ProfileCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	stored := &domain.Profile{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Kind:         domain.KindIndividual,
		CustomerName: "Jane Roe",
		Country:      "United Arab Emirates",
		Status:       "verification.accepted",
		ApiStatus:    "verification.accepted",
		ApiResult:    json.RawMessage(`{"event":"verification.accepted","score":12}`),
	}

	s.cache.Set(ctx, stored)

	got, ok := s.cache.Get(ctx, stored.ID)
	s.Require().True(ok)
	s.Equal(stored.CustomerName, got.CustomerName)
	s.Equal(stored.Status, got.Status)
	s.JSONEq(string(stored.ApiResult), string(got.ApiResult))
}

func (s *ProfileCacheSuite) TestMissOnUnknownProfile() {
	_, ok := s.cache.Get(context.Background(), uuid.New())
	s.False(ok)
}

func (s *ProfileCacheSuite) TestInvalidate() {
	ctx := context.Background()
	p := &domain.Profile{ID: uuid.New(), Kind: domain.KindIndividual, CustomerName: "Jane Roe"}

	s.cache.Set(ctx, p)
	s.cache.Invalidate(ctx, p.ID)

	_, ok := s.cache.Get(ctx, p.ID)
	s.False(ok)
}

func (s *ProfileCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	short := profile.NewRedisCache(s.redis.Client, time.Second, nil)
	p := &domain.Profile{ID: uuid.New(), Kind: domain.KindIndividual, CustomerName: "Jane Roe"}

	short.Set(ctx, p)

	_, ok := short.Get(ctx, p.ID)
	s.Require().True(ok)

	time.Sleep(1500 * time.Millisecond)

	_, ok = short.Get(ctx, p.ID)
	s.False(ok)
}

// A lookup fills the cache, and until the entry is invalidated or expires
// the service keeps serving the cached copy even when the row changes
// underneath it.
func (s *ProfileCacheSuite) TestReadThroughServesCachedCopy() {
	ctx := context.Background()
	svc := profile.NewService(profile.NewPostgres(s.postgres.DB), profile.WithCache(s.cache))

	created, err := svc.Create(ctx, &domain.Profile{
		UserID:       uuid.New(),
		Kind:         domain.KindIndividual,
		CustomerName: "Jane Roe",
		Country:      "United Arab Emirates",
	})
	s.Require().NoError(err)

	first, err := svc.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Jane Roe", first.CustomerName)

	_, err = s.postgres.DB.ExecContext(ctx,
		`UPDATE profiles SET customer_name = 'Renamed Roe' WHERE id = $1`, created.ID)
	s.Require().NoError(err)

	cachedRead, err := svc.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Jane Roe", cachedRead.CustomerName)

	s.cache.Invalidate(ctx, created.ID)

	freshRead, err := svc.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Renamed Roe", freshRead.CustomerName)
}
