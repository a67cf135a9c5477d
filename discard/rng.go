package discard

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"
)

// randomizer hands a policy an RNG for one Throw. A seeded randomizer
// derives that RNG from its seed and the deal, so the same deal always gets
// the same throw however many goroutines share the policy and in whatever
// order they call it.
type randomizer struct {
	mu   sync.Mutex
	rng  *frand.RNG
	seed *[32]byte
}

func newRandomizer() *randomizer {
	return &randomizer{rng: frand.New()}
}

func newSeededRandomizer(seed [32]byte) *randomizer {
	return &randomizer{seed: &seed}
}

func (r *randomizer) with(isDealer bool, cards [DealtSize]int, fn func(*frand.RNG)) {
	if r.seed == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		fn(r.rng)
		return
	}
	s := dealSeed(*r.seed, isDealer, cards)
	fn(frand.NewCustom(s[:], 1024, 12))
}

func dealSeed(seed [32]byte, isDealer bool, cards [DealtSize]int) [32]byte {
	var buf [32 + DealtSize + 1]byte
	copy(buf[:], seed[:])
	for i, c := range cards {
		buf[32+i] = byte(c)
	}
	if isDealer {
		buf[32+DealtSize] = 1
	}
	var out [32]byte
	for j := 0; j < 4; j++ {
		buf[0] ^= byte(j + 1)
		binary.LittleEndian.PutUint64(out[j*8:], xxhash.Sum64(buf[:]))
	}
	return out
}
