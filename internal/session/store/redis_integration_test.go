//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	q "helptoheat/internal/questionnaire"
	"helptoheat/internal/session/store"
	"helptoheat/pkg/platform/sentinel"
	"helptoheat/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client, time.Hour)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestAppendListLatest() {
	ctx := context.Background()
	session := uuid.New()
	base := time.Now().UTC()

	s.Require().NoError(s.store.Append(ctx, answerAt(session, q.PageCountry, base, map[string]any{"country": "Wales"})))
	s.Require().NoError(s.store.Append(ctx, answerAt(session, q.PageSupplier, base.Add(time.Second), map[string]any{"supplier": "EDF"})))
	s.Require().NoError(s.store.Append(ctx, answerAt(session, q.PageCountry, base.Add(2*time.Second), map[string]any{"country": "Scotland"})))

	answers, err := s.store.List(ctx, session)
	s.Require().NoError(err)
	s.Require().Len(answers, 3)
	s.Equal(q.PageSupplier, answers[1].PageName)

	latest, err := s.store.Latest(ctx, session, q.PageCountry)
	s.Require().NoError(err)
	s.Equal("Scotland", latest.Data["country"])

	_, err = s.store.Latest(ctx, session, q.PageLoft)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestKeyExpires() {
	ctx := context.Background()
	session := uuid.New()
	s.Require().NoError(s.store.Append(ctx, answerAt(session, q.PageCountry, time.Now(), map[string]any{"country": "Wales"})))

	ttl, err := s.redis.Client.TTL(ctx, "helptoheat:answers:"+session.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Hour)
}
