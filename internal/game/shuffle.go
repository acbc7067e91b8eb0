package game

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness a shuffle draws from. *rand.Rand satisfies it.
type Source interface {
	// Intn returns a uniform int in [0, n).
	Intn(n int) int
}

// lockedSource serialises access to a *rand.Rand so that sessions living on
// different goroutines can share the one process-wide generator.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// defaultSource is seeded once at start-up and never reseeded.
var defaultSource Source = &lockedSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}

// NewSeededSource returns a deterministic source, for reproducible layouts.
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// shuffle permutes whole cards in place (Fisher–Yates, from the top down).
func shuffle(cards []Card, src Source) {
	for i := len(cards) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
