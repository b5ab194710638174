package dice

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"
	"sync"
)

// Source is the randomness provider behind a Roller.
// Implementations must be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n). Panics if n <= 0.
	Intn(n int) int
}

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand
func NewCryptoSource() Source {
	return &cryptoSource{}
}

func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

type seededSource struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSeededSource returns a deterministic Source. The same seed always
// produces the same sequence of draws, which makes rolls replayable.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mathrand.New(mathrand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
