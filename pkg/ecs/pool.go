package ecs

// Advancer 是可以按帧推进并自行判断结束的实体
type Advancer interface {
	// Advance 推进 dt 秒，返回实体是否仍然存活
	Advance(dt float64) bool
	// Done 返回实体是否已结束
	Done() bool
}

// Pool 管理同一类实体的有序集合
//
// 实体按插入顺序保存，渲染也按此顺序进行。每帧调用一次 Advance：
// 先推进所有成员，再移除已结束的成员（保持剩余成员顺序）。
// 已结束的实体不会被复用。
type Pool[T Advancer] struct {
	items []T
}

// NewPool 创建一个空实体池
func NewPool[T Advancer]() *Pool[T] {
	return &Pool[T]{items: make([]T, 0, 64)}
}

// Add 在末尾追加实体
func (p *Pool[T]) Add(items ...T) {
	p.items = append(p.items, items...)
}

// Advance 推进所有实体并清除已结束的实体
//
// 返回本次被移除的实体数量。
func (p *Pool[T]) Advance(dt float64) int {
	for _, item := range p.items {
		item.Advance(dt)
	}
	return p.Prune()
}

// Prune 原地移除已结束的实体，保持剩余实体的相对顺序
func (p *Pool[T]) Prune() int {
	kept := p.items[:0]
	for _, item := range p.items {
		if !item.Done() {
			kept = append(kept, item)
		}
	}
	removed := len(p.items) - len(kept)

	// 清空尾部引用，避免已结束实体被切片底层数组持有
	var zero T
	for i := len(kept); i < len(p.items); i++ {
		p.items[i] = zero
	}
	p.items = kept
	return removed
}

// Each 按插入顺序遍历实体
func (p *Pool[T]) Each(fn func(T)) {
	for _, item := range p.items {
		fn(item)
	}
}

// Items 返回当前实体切片（只读使用）
func (p *Pool[T]) Items() []T {
	return p.items
}

// Len 返回实体数量
func (p *Pool[T]) Len() int {
	return len(p.items)
}

// Clear 清空实体池
func (p *Pool[T]) Clear() {
	var zero T
	for i := range p.items {
		p.items[i] = zero
	}
	p.items = p.items[:0]
}
