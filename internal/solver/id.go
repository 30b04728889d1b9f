package solver

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out run identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator produces time-sortable ids. Two runs started within the
// same minute still get distinct ids.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids in order, for tests.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate panics once all ids are consumed.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// ShortID keeps the last twelve characters of a run id. For UUIDv7 ids that
// is the random tail; the leading characters only encode the clock.
func ShortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[len(id)-12:]
}
