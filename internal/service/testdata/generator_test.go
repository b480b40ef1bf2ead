package testdata_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/repository"
	"github.com/fisker/crm-backend/internal/service/testdata"
	"github.com/fisker/crm-backend/internal/testutil"
	"github.com/fisker/crm-backend/pkg/config"
	"github.com/fisker/crm-backend/pkg/distributed"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newGenerator(t *testing.T, cfg config.TestDataConfig, client *redis.Client) (*testdata.Generator, *gorm.DB) {
	t.Helper()
	cfg.SetDefaults()
	db := testutil.NewSeededDB(t)
	g := testdata.NewGenerator(cfg, client,
		repository.NewAccountRepository(db),
		repository.NewContactRepository(db),
		repository.NewOpportunityRepository(db),
		repository.NewTestDataRepository(db),
	).WithRand(42)
	return g, db
}

func count(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestNormalizeCounts(t *testing.T) {
	tests := []struct {
		name string
		req  model.GenerateTestDataRequest
		want testdata.Counts
	}{
		{"defaults", model.GenerateTestDataRequest{}, testdata.Counts{Accounts: 100000, Contacts: 200000, Opportunities: 1000000}},
		{"negative", model.GenerateTestDataRequest{Accounts: -1}, testdata.Counts{Accounts: 100000, Contacts: 200000, Opportunities: 1000000}},
		{"capped", model.GenerateTestDataRequest{Accounts: 9e6, Contacts: 9e6, Opportunities: 9e6}, testdata.Counts{Accounts: 500000, Contacts: 1000000, Opportunities: 5000000}},
		{"explicit", model.GenerateTestDataRequest{Accounts: 5, Contacts: 6, Opportunities: 7}, testdata.Counts{Accounts: 5, Contacts: 6, Opportunities: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testdata.NormalizeCounts(tt.req))
		})
	}
}

func TestGenerator_Authorize(t *testing.T) {
	g, _ := newGenerator(t, config.TestDataConfig{}, nil)
	assert.ErrorIs(t, g.Authorize("anything"), model.ErrForbidden)

	g, _ = newGenerator(t, config.TestDataConfig{Password: "s3cret"}, nil)
	assert.NoError(t, g.Authorize("s3cret"))
	assert.ErrorIs(t, g.Authorize("wrong"), model.ErrUnauthorized)

	hash, err := bcrypt.GenerateFromPassword([]byte("hashed"), bcrypt.MinCost)
	require.NoError(t, err)
	g, _ = newGenerator(t, config.TestDataConfig{Password: "s3cret", PasswordHash: string(hash)}, nil)
	assert.NoError(t, g.Authorize("hashed"))
	assert.ErrorIs(t, g.Authorize("s3cret"), model.ErrUnauthorized)
}

func TestGenerator_GenerateAndWipe(t *testing.T) {
	g, db := newGenerator(t, config.TestDataConfig{Password: "pw", BatchSize: 4, ReservoirSize: 3}, nil)
	ctx := context.Background()

	resp, err := g.Generate(ctx, model.GenerateTestDataRequest{Password: "pw", Accounts: 10, Contacts: 25, Opportunities: 30})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(10), resp.Stats.Accounts)
	assert.Equal(t, int64(25), resp.Stats.Contacts)
	assert.Equal(t, int64(30), resp.Stats.Opportunities)

	assert.Equal(t, int64(10), count(t, db, &model.Account{}))
	assert.Equal(t, int64(25), count(t, db, &model.Contact{}))
	assert.Equal(t, int64(30), count(t, db, &model.Opportunity{}))

	// 所有外键都指向已存在的客户
	var dangling int64
	require.NoError(t, db.Model(&model.Opportunity{}).
		Where("account_id NOT IN (?)", db.Model(&model.Account{}).Select("id")).
		Count(&dangling).Error)
	assert.Zero(t, dangling)
	require.NoError(t, db.Model(&model.Contact{}).
		Where("account_id IS NOT NULL AND account_id NOT IN (?)", db.Model(&model.Account{}).Select("id")).
		Count(&dangling).Error)
	assert.Zero(t, dangling)

	var opps []model.Opportunity
	require.NoError(t, db.Find(&opps).Error)
	for _, o := range opps {
		assert.Contains(t, model.OpportunityStages, o.Stage)
		require.True(t, o.Amount.Valid)
		assert.True(t, o.Amount.Decimal.IntPart() >= 5000 && o.Amount.Decimal.IntPart() <= 500000)
		require.NotNil(t, o.CloseDate)
	}

	_, err = g.Wipe(ctx, model.WipeTestDataRequest{Password: "nope"})
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	wiped, err := g.Wipe(ctx, model.WipeTestDataRequest{Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), wiped.Stats.Accounts)
	assert.Equal(t, int64(25), wiped.Stats.Contacts)
	assert.Equal(t, int64(30), wiped.Stats.Opportunities)
	assert.Zero(t, count(t, db, &model.Account{}))
	assert.Equal(t, int64(15), count(t, db, &model.FieldDefinition{}))
}

func TestGenerator_BusyWhileLockHeld(t *testing.T) {
	g, _ := newGenerator(t, config.TestDataConfig{Password: "pw"}, nil)
	ctx := context.Background()

	held := distributed.NewLock(nil, testdata.LockKey, time.Minute)
	ok, err := held.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = g.Generate(ctx, model.GenerateTestDataRequest{Password: "pw", Accounts: 1, Contacts: 1, Opportunities: 1})
	assert.ErrorIs(t, err, model.ErrBusy)

	require.NoError(t, held.Unlock())
	_, err = g.Generate(ctx, model.GenerateTestDataRequest{Password: "pw", Accounts: 1, Contacts: 1, Opportunities: 1})
	assert.NoError(t, err)
}

func TestGenerator_BusyWithRedisLock(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	g, _ := newGenerator(t, config.TestDataConfig{Password: "pw"}, client)

	require.NoError(t, mr.Set(testdata.LockKey, "another-instance"))
	_, err := g.Wipe(context.Background(), model.WipeTestDataRequest{Password: "pw"})
	assert.ErrorIs(t, err, model.ErrBusy)

	mr.Del(testdata.LockKey)
	_, err = g.Wipe(context.Background(), model.WipeTestDataRequest{Password: "pw"})
	assert.NoError(t, err)
}

func TestGenerator_FailureReportsPartialStats(t *testing.T) {
	g, _ := newGenerator(t, config.TestDataConfig{Password: "pw"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, model.GenerateTestDataRequest{Password: "pw", Accounts: 2, Contacts: 2, Opportunities: 2})
	var partial *testdata.PartialError
	require.ErrorAs(t, err, &partial)
	assert.Zero(t, partial.Stats.Accounts)
}

func TestReservoir_BoundedAndUniformSource(t *testing.T) {
	r := testdata.NewReservoir[int](10, rand.New(rand.NewPCG(1, 2)))
	_, ok := r.Pick()
	assert.False(t, ok)

	for i := 0; i < 1000; i++ {
		r.Add(i)
	}
	assert.Equal(t, 10, r.Len())
	assert.Equal(t, 1000, r.Seen())

	for i := 0; i < 50; i++ {
		v, ok := r.Pick()
		require.True(t, ok)
		assert.True(t, v >= 0 && v < 1000)
	}
}
