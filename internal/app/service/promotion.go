package service

import (
	"math/rand/v2"
	"sync"
)

// PromotionCounter decides when a promotional block accompanies a portfolio.
// The threshold is drawn uniformly from [lo, hi] and redrawn on every reset.
type PromotionCounter struct {
	mu        sync.Mutex
	lo, hi    int
	count     int
	threshold int
	intN      func(n int) int
}

// NewPromotionCounter creates a counter firing every lo to hi requests.
// lo is clamped to 1 and hi to lo.
func NewPromotionCounter(lo, hi int) *PromotionCounter {
	return newPromotionCounter(lo, hi, rand.IntN)
}

func newPromotionCounter(lo, hi int, intN func(n int) int) *PromotionCounter {
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	p := &PromotionCounter{lo: lo, hi: hi, intN: intN}
	p.threshold = p.draw()
	return p
}

func (p *PromotionCounter) draw() int {
	return p.lo + p.intN(p.hi-p.lo+1)
}

// Tick counts one portfolio request and reports whether the threshold was
// reached, in which case the counter resets with a fresh threshold.
func (p *PromotionCounter) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.count++
	if p.count < p.threshold {
		return false
	}
	p.count = 0
	p.threshold = p.draw()
	return true
}
