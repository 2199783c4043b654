package vmcode

import (
	"crypto/rand"
	"fmt"
)

// LabelMaker mints fresh, subroutine-unique labels for control-flow
// targets. It is injected into the compiler as a capability rather than
// reached for as a process-wide RNG, so tests can pin deterministic label
// names.
type LabelMaker interface {
	// Create returns a fresh label built from prefix, unique across the
	// lifetime of this LabelMaker.
	Create(prefix string) string
}

// randomLabelMaker is the production LabelMaker: each label gets a random
// alphanumeric suffix, so labels stay unique even across subroutines
// without the maker needing to track every name it has ever issued.
type randomLabelMaker struct{}

// NewRandomLabelMaker returns the production label generator.
func NewRandomLabelMaker() LabelMaker {
	return randomLabelMaker{}
}

func (randomLabelMaker) Create(prefix string) string {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand.Read on a live system does not fail; if it ever
		// does, zero bytes in buf map to an "aaaaaa" suffix, which still yields a valid
		// (if degenerately non-unique) label rather than crashing the
		// compile.
	}
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffix := make([]byte, len(buf))
	for i, b := range buf {
		suffix[i] = alphabet[int(b)%len(alphabet)]
	}
	return fmt.Sprintf("%s_%s", prefix, suffix)
}

// SequentialLabelMaker is a deterministic LabelMaker for tests: it keeps one
// counter per prefix, counting up from zero, so repeated calls with "L"
// produce "L0", "L1", ... independently of other prefixes.
type SequentialLabelMaker struct {
	next map[string]int
}

// NewSequentialLabelMaker returns a deterministic label generator suitable
// for golden-output tests.
func NewSequentialLabelMaker() *SequentialLabelMaker {
	return &SequentialLabelMaker{}
}

func (m *SequentialLabelMaker) Create(prefix string) string {
	if m.next == nil {
		m.next = make(map[string]int)
	}
	label := fmt.Sprintf("%s%d", prefix, m.next[prefix])
	m.next[prefix]++
	return label
}
