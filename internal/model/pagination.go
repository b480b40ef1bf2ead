package model

import "strconv"

const (
	DefaultPageLimit   = 500
	MaxPageLimit       = 1000
	DefaultSearchLimit = 100
	MaxSearchLimit     = 1000
)

// Pagination 页码从1开始
type Pagination struct {
	Page  int
	Limit int
}

// Offset 偏移量
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination page 至少为1；limit 缺省或为0时取默认值，再限制在 [1, 1000]
func ParsePagination(page, limit string) Pagination {
	p := Pagination{
		Page:  atoiOr(page, 1),
		Limit: atoiOr(limit, DefaultPageLimit),
	}
	if p.Page < 1 {
		p.Page = 1
	}
	p.Limit = clamp(p.Limit, 1, MaxPageLimit)
	return p
}

// ParseSearchLimit 搜索条数：默认100，最多1000
func ParseSearchLimit(limit string) int {
	return clamp(atoiOr(limit, DefaultSearchLimit), 1, MaxSearchLimit)
}

// atoiOr 解析失败或为0时返回默认值
func atoiOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v == 0 {
		return def
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
