package testdata

import "math/rand/v2"

// Reservoir 固定容量的均匀采样池（Algorithm R）。
// 生成百万级商机时不必把全部客户ID留在内存里
type Reservoir[T any] struct {
	capacity int
	seen     int
	items    []T
	rng      *rand.Rand
}

func NewReservoir[T any](capacity int, rng *rand.Rand) *Reservoir[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Reservoir[T]{capacity: capacity, items: make([]T, 0, min(capacity, 1024)), rng: rng}
}

// Add 第 n 个元素以 capacity/n 的概率进入采样池
func (r *Reservoir[T]) Add(item T) {
	r.seen++
	if len(r.items) < r.capacity {
		r.items = append(r.items, item)
		return
	}
	if j := r.rng.IntN(r.seen); j < r.capacity {
		r.items[j] = item
	}
}

// Pick 随机取一个；为空时返回 false
func (r *Reservoir[T]) Pick() (T, bool) {
	var zero T
	if len(r.items) == 0 {
		return zero, false
	}
	return r.items[r.rng.IntN(len(r.items))], true
}

// Len 当前池中元素个数
func (r *Reservoir[T]) Len() int { return len(r.items) }

// Seen 累计加入过的元素个数
func (r *Reservoir[T]) Seen() int { return r.seen }
