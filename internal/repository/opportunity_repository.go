package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OpportunityRepository struct {
	db *gorm.DB
}

func NewOpportunityRepository(db *gorm.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

func withOpportunityAccountName(db *gorm.DB) *gorm.DB {
	return db.Table("opportunities").
		Select("opportunities.*, accounts.name AS account_name").
		Joins("LEFT JOIN accounts ON accounts.id = opportunities.account_id")
}

// Create 创建商机
func (r *OpportunityRepository) Create(ctx context.Context, opp *model.Opportunity) error {
	return r.db.WithContext(ctx).Create(opp).Error
}

// CreateBatch 批量创建
func (r *OpportunityRepository) CreateBatch(ctx context.Context, opps []model.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&opps).Error
}

// FindByID 根据ID查找商机（附带客户名称）
func (r *OpportunityRepository) FindByID(ctx context.Context, id string) (*model.OpportunityWithAccount, error) {
	var opp model.OpportunityWithAccount
	err := r.db.WithContext(ctx).Scopes(withOpportunityAccountName).
		Where("opportunities.id = ?", id).
		Take(&opp).Error
	if err != nil {
		return nil, notFound(err, "Opportunity")
	}
	return &opp, nil
}

// CloseDateBounds 计算预置区间的闭区间 [from, to]；overdue 只有上界（不含当天）
func CloseDateBounds(r model.CloseDateRange, today model.Date) (from, to *model.Date) {
	t := today.Time
	switch r {
	case model.CloseDateThisWeek:
		// 周一为一周第一天
		offset := (int(t.Weekday()) + 6) % 7
		start := today.AddDays(-offset)
		end := start.AddDays(6)
		return &start, &end
	case model.CloseDateThisMonth:
		start := model.NewDate(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
		end := model.NewDate(start.AddDate(0, 1, -1))
		return &start, &end
	case model.CloseDateThisQuarter:
		firstMonth := time.Month((int(t.Month())-1)/3*3 + 1)
		start := model.NewDate(time.Date(t.Year(), firstMonth, 1, 0, 0, 0, 0, time.UTC))
		end := model.NewDate(start.AddDate(0, 3, -1))
		return &start, &end
	case model.CloseDateThisYear:
		start := model.NewDate(time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
		end := model.NewDate(time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC))
		return &start, &end
	case model.CloseDateOverdue:
		end := today.AddDays(-1)
		return nil, &end
	}
	return nil, nil
}

func opportunityFilterScope(filter model.OpportunityFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.AccountID != "" {
			db = db.Where("opportunities.account_id = ?", filter.AccountID)
		}
		if filter.Stage != "" {
			db = db.Where("opportunities.stage = ?", filter.Stage)
		}
		if filter.AmountMin != nil {
			db = db.Where("opportunities.amount >= ?", *filter.AmountMin)
		}
		if filter.AmountMax != nil {
			db = db.Where("opportunities.amount <= ?", *filter.AmountMax)
		}
		if filter.CloseDateRange != "" {
			today := filter.Today
			if today.IsZero() {
				today = model.NewDate(time.Now())
			}
			from, to := CloseDateBounds(filter.CloseDateRange, today)
			if from != nil {
				db = db.Where("opportunities.close_date >= ?", *from)
			}
			if to != nil {
				db = db.Where("opportunities.close_date <= ?", *to)
			}
			if filter.CloseDateRange == model.CloseDateOverdue {
				db = db.Where("opportunities.stage NOT IN ?", model.ClosedStages)
			}
		}
		return db
	}
}

// List 分页查询，按名称排序
func (r *OpportunityRepository) List(ctx context.Context, filter model.OpportunityFilter, page model.Pagination) ([]model.OpportunityWithAccount, int64, error) {
	opps := []model.OpportunityWithAccount{}
	var total int64

	err := pageAndCount(ctx, r.db,
		func(db *gorm.DB) error {
			return db.Scopes(withOpportunityAccountName, opportunityFilterScope(filter)).
				Order("opportunities.name ASC, opportunities.id ASC").
				Offset(page.Offset()).Limit(page.Limit).
				Find(&opps).Error
		},
		func(db *gorm.DB) error {
			return db.Model(&model.Opportunity{}).Scopes(opportunityFilterScope(filter)).Count(&total).Error
		},
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list opportunities: %w", err)
	}
	return opps, total, nil
}

func opportunitySearchScope(q string) func(*gorm.DB) *gorm.DB {
	pattern := containsPattern(q)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(opportunities.name) LIKE ? OR LOWER(opportunities.stage) LIKE ?", pattern, pattern)
	}
}

// Search 按名称/阶段模糊搜索
func (r *OpportunityRepository) Search(ctx context.Context, q string, limit int) ([]model.OpportunityWithAccount, int64, error) {
	opps := []model.OpportunityWithAccount{}
	var total int64

	err := pageAndCount(ctx, r.db,
		func(db *gorm.DB) error {
			return db.Scopes(withOpportunityAccountName, opportunitySearchScope(q)).
				Order("opportunities.name ASC").
				Limit(limit).
				Find(&opps).Error
		},
		func(db *gorm.DB) error {
			return db.Model(&model.Opportunity{}).Scopes(opportunitySearchScope(q)).Count(&total).Error
		},
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search opportunities: %w", err)
	}
	return opps, total, nil
}

// Update 部分更新
func (r *OpportunityRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.OpportunityWithAccount, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var opp model.Opportunity
		if err := tx.Where("id = ?", id).First(&opp).Error; err != nil {
			return notFound(err, "Opportunity")
		}
		updates["updated_at"] = time.Now()
		return tx.Model(&opp).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete 删除商机
func (r *OpportunityRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Opportunity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.NewNotFound("Opportunity")
	}
	return nil
}

// PipelineSummary 商机数量及金额汇总
type PipelineSummary struct {
	Total     int64
	Open      int64
	OpenSum   decimal.Decimal
	WonAmount decimal.Decimal
}

// Summary 统计总数、未关闭数量、未关闭金额和赢单金额
func (r *OpportunityRepository) Summary(ctx context.Context) (*PipelineSummary, error) {
	db := r.db.WithContext(ctx).Model(&model.Opportunity{})
	summary := &PipelineSummary{}

	if err := db.Session(&gorm.Session{}).Count(&summary.Total).Error; err != nil {
		return nil, err
	}

	var open struct {
		OpenCount int64
		OpenSum   decimal.NullDecimal
	}
	if err := db.Session(&gorm.Session{}).
		Select("COUNT(*) AS open_count, SUM(amount) AS open_sum").
		Where("stage NOT IN ?", model.ClosedStages).
		Scan(&open).Error; err != nil {
		return nil, err
	}
	summary.Open = open.OpenCount
	summary.OpenSum = open.OpenSum.Decimal

	var won struct {
		WonSum decimal.NullDecimal
	}
	if err := db.Session(&gorm.Session{}).
		Select("SUM(amount) AS won_sum").
		Where("stage = ?", model.StageClosedWon).
		Scan(&won).Error; err != nil {
		return nil, err
	}
	summary.WonAmount = won.WonSum.Decimal
	return summary, nil
}
