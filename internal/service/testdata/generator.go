// Package testdata 口令保护的批量测试数据生成与清理
package testdata

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/repository"
	"github.com/fisker/crm-backend/pkg/config"
	"github.com/fisker/crm-backend/pkg/distributed"
	"github.com/fisker/crm-backend/pkg/logger"
	"github.com/fisker/crm-backend/pkg/metrics"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// LockKey 生成/清空任务共用的锁
const LockKey = "crm:lock:test-data"

const (
	DefaultAccounts      = 100000
	DefaultContacts      = 200000
	DefaultOpportunities = 1000000

	MaxAccounts      = 500000
	MaxContacts      = 1000000
	MaxOpportunities = 5000000

	// contactAccountRatio 关联客户的联系人比例
	contactAccountRatio = 0.9
)

// PartialError 生成中途失败，Stats 为已提交的数量
type PartialError struct {
	Stats model.TestDataStats
	Err   error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("test data generation failed after %d accounts, %d contacts, %d opportunities: %v",
		e.Stats.Accounts, e.Stats.Contacts, e.Stats.Opportunities, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Counts 各实体的目标数量
type Counts struct {
	Accounts      int
	Contacts      int
	Opportunities int
}

// NormalizeCounts 非正数取默认值，超出上限截断
func NormalizeCounts(req model.GenerateTestDataRequest) Counts {
	normalize := func(v, def, max int) int {
		if v <= 0 {
			return def
		}
		if v > max {
			return max
		}
		return v
	}
	return Counts{
		Accounts:      normalize(req.Accounts, DefaultAccounts, MaxAccounts),
		Contacts:      normalize(req.Contacts, DefaultContacts, MaxContacts),
		Opportunities: normalize(req.Opportunities, DefaultOpportunities, MaxOpportunities),
	}
}

type accountRef struct {
	id   string
	name string
}

// Generator 测试数据生成器，同一时间只允许一个任务
type Generator struct {
	cfg           config.TestDataConfig
	redis         *redis.Client
	accounts      *repository.AccountRepository
	contacts      *repository.ContactRepository
	opportunities *repository.OpportunityRepository
	wiper         *repository.TestDataRepository

	now  func() time.Time
	seed func() *rand.Rand
}

// NewGenerator redisClient 为 nil 时使用进程内锁
func NewGenerator(cfg config.TestDataConfig, redisClient *redis.Client, accounts *repository.AccountRepository, contacts *repository.ContactRepository, opportunities *repository.OpportunityRepository, wiper *repository.TestDataRepository) *Generator {
	return &Generator{
		cfg:           cfg,
		redis:         redisClient,
		accounts:      accounts,
		contacts:      contacts,
		opportunities: opportunities,
		wiper:         wiper,
		now:           time.Now,
		seed: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// WithRand 固定随机源
func (g *Generator) WithRand(seed uint64) *Generator {
	g.seed = func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed)) }
	return g
}

// Authorize 校验口令：未配置返回 ErrForbidden，不匹配返回 ErrUnauthorized
func (g *Generator) Authorize(password string) error {
	if !g.cfg.Enabled() {
		return model.ErrForbidden
	}
	if g.cfg.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(g.cfg.PasswordHash), []byte(password)); err != nil {
			return model.ErrUnauthorized
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(g.cfg.Password), []byte(password)) != 1 {
		return model.ErrUnauthorized
	}
	return nil
}

// acquire 获取任务锁，已有任务在运行时返回 ErrBusy
func (g *Generator) acquire(ctx context.Context) (distributed.Lock, error) {
	lock := distributed.NewLock(g.redis, LockKey, time.Duration(g.cfg.LockTTL)*time.Second)
	ok, err := lock.TryLock(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrBusy
	}
	return lock, nil
}

func release(lock distributed.Lock) {
	if err := lock.Unlock(); err != nil {
		logger.Warnf("Failed to release test data lock: %v", err)
	}
}

// Generate 校验口令后按客户、联系人、商机的顺序分批写入
func (g *Generator) Generate(ctx context.Context, req model.GenerateTestDataRequest) (*model.TestDataResponse, error) {
	if err := g.Authorize(req.Password); err != nil {
		return nil, err
	}
	lock, err := g.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release(lock)

	counts := NormalizeCounts(req)
	logger.Infof("Starting test data generation: %d accounts, %d contacts, %d opportunities",
		counts.Accounts, counts.Contacts, counts.Opportunities)

	start := g.now()
	stats, err := g.run(ctx, counts)
	stats.DurationSeconds = int64(g.now().Sub(start).Round(time.Second) / time.Second)
	metrics.TestDataRunDuration.Observe(g.now().Sub(start).Seconds())
	if err != nil {
		logger.Errorf("Test data generation failed: %v", err)
		return nil, &PartialError{Stats: stats, Err: err}
	}

	logger.Infof("Test data generation complete in %ds", stats.DurationSeconds)
	return &model.TestDataResponse{
		Success: true,
		Message: "Test data generated successfully",
		Stats:   stats,
	}, nil
}

func (g *Generator) batchSize() int {
	if g.cfg.BatchSize > 0 {
		return g.cfg.BatchSize
	}
	return 1000
}

func (g *Generator) run(ctx context.Context, counts Counts) (model.TestDataStats, error) {
	var stats model.TestDataStats
	rng := g.seed()
	fake := faker{rng: rng}
	refs := NewReservoir[accountRef](g.cfg.ReservoirSize, rng)
	batch := g.batchSize()
	today := model.NewDate(g.now())

	for done := 0; done < counts.Accounts; {
		n := min(batch, counts.Accounts-done)
		rows := make([]model.Account, 0, n)
		for i := 0; i < n; i++ {
			name := fake.companyName(done + i + 1)
			industry, country, phone, site := fake.industry(), fake.country(), fake.phone(), website(name)
			rows = append(rows, model.Account{
				Name:     name,
				Industry: &industry,
				Country:  &country,
				Phone:    &phone,
				Website:  &site,
			})
		}
		if err := g.accounts.CreateBatch(ctx, rows); err != nil {
			return stats, fmt.Errorf("insert accounts: %w", err)
		}
		for _, a := range rows {
			refs.Add(accountRef{id: a.ID, name: a.Name})
		}
		done += n
		stats.Accounts = int64(done)
		metrics.TestDataInserted.WithLabelValues(string(model.ObjectTypeAccount)).Add(float64(n))
		logProgress("Accounts", done, counts.Accounts, batch)
	}

	for done := 0; done < counts.Contacts; {
		n := min(batch, counts.Contacts-done)
		rows := make([]model.Contact, 0, n)
		for i := 0; i < n; i++ {
			first, last := pick(rng, firstNames), pick(rng, lastNames)
			email, phone := fake.email(first, last, done+i), fake.phone()
			contact := model.Contact{FirstName: first, LastName: last, Email: &email, Phone: &phone}
			if rng.Float64() < contactAccountRatio {
				if ref, ok := refs.Pick(); ok {
					contact.AccountID = &ref.id
				}
			}
			rows = append(rows, contact)
		}
		if err := g.contacts.CreateBatch(ctx, rows); err != nil {
			return stats, fmt.Errorf("insert contacts: %w", err)
		}
		done += n
		stats.Contacts = int64(done)
		metrics.TestDataInserted.WithLabelValues(string(model.ObjectTypeContact)).Add(float64(n))
		logProgress("Contacts", done, counts.Contacts, batch)
	}

	if refs.Len() == 0 && counts.Opportunities > 0 {
		return stats, errors.New("no accounts available for opportunities")
	}
	for done := 0; done < counts.Opportunities; {
		n := min(batch, counts.Opportunities-done)
		rows := make([]model.Opportunity, 0, n)
		for i := 0; i < n; i++ {
			ref, _ := refs.Pick()
			closeDate := fake.closeDate(today)
			rows = append(rows, model.Opportunity{
				Name:      pick(rng, opportunityNames) + " - " + ref.name,
				AccountID: ref.id,
				Amount:    decimal.NewNullDecimal(decimal.NewFromInt(int64(fake.between(5000, 500000)))),
				Stage:     fake.stage(),
				CloseDate: &closeDate,
			})
		}
		if err := g.opportunities.CreateBatch(ctx, rows); err != nil {
			return stats, fmt.Errorf("insert opportunities: %w", err)
		}
		done += n
		stats.Opportunities = int64(done)
		metrics.TestDataInserted.WithLabelValues(string(model.ObjectTypeOpportunity)).Add(float64(n))
		logProgress("Opportunities", done, counts.Opportunities, batch)
	}
	return stats, nil
}

// logProgress 大约每50批打印一次进度
func logProgress(what string, done, total, batch int) {
	if done == total || done%(batch*50) == 0 {
		logger.Infof("  %s: %d/%d", what, done, total)
	}
}

// Wipe 校验口令后删除全部客户、联系人和商机
func (g *Generator) Wipe(ctx context.Context, req model.WipeTestDataRequest) (*model.TestDataResponse, error) {
	if err := g.Authorize(req.Password); err != nil {
		return nil, err
	}
	lock, err := g.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release(lock)

	start := g.now()
	stats, err := g.wiper.WipeAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("wipe test data: %w", err)
	}
	stats.DurationSeconds = int64(g.now().Sub(start).Round(time.Second) / time.Second)
	for objectType, n := range map[model.ObjectType]int64{
		model.ObjectTypeAccount:     stats.Accounts,
		model.ObjectTypeContact:     stats.Contacts,
		model.ObjectTypeOpportunity: stats.Opportunities,
	} {
		metrics.RecordsWritten.WithLabelValues(string(objectType), "delete").Add(float64(n))
	}

	logger.Infof("Test data wiped: %d accounts, %d contacts, %d opportunities",
		stats.Accounts, stats.Contacts, stats.Opportunities)
	return &model.TestDataResponse{
		Success: true,
		Message: "All records deleted",
		Stats:   *stats,
	}, nil
}
