package campaign

import (
	"fmt"
	"time"

	"github.com/foxzi/campaignmock/internal/random"
)

// Corpus is an ordered, immutable set of campaigns. It is built once at
// startup and is safe for concurrent reads.
type Corpus struct {
	campaigns []Campaign
	byID      map[int64]int
}

// Build synthesizes count campaigns from a single source seeded with seed.
// The same seed, reference date and count always yield the same corpus.
func Build(seed int64, reference time.Time, count int) (*Corpus, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid corpus size: %d", count)
	}

	synth := NewSynthesizer(random.New(seed), reference)
	campaigns := make([]Campaign, count)
	for i := range campaigns {
		campaigns[i] = synth.Generate(i)
	}
	return newCorpus(campaigns)
}

// NewCorpus wraps already-built campaigns. The slice is copied.
func NewCorpus(campaigns []Campaign) (*Corpus, error) {
	return newCorpus(append([]Campaign(nil), campaigns...))
}

func newCorpus(campaigns []Campaign) (*Corpus, error) {
	byID := make(map[int64]int, len(campaigns))
	for i, c := range campaigns {
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate campaign id %d", c.ID)
		}
		byID[c.ID] = i
	}
	return &Corpus{campaigns: campaigns, byID: byID}, nil
}

// Len returns the number of campaigns.
func (c *Corpus) Len() int {
	return len(c.campaigns)
}

// All returns a copy of the campaigns in corpus order.
func (c *Corpus) All() []Campaign {
	return append([]Campaign(nil), c.campaigns...)
}

// Find returns the campaign with the given id. The second result is false
// when no such campaign exists.
func (c *Corpus) Find(id int64) (Campaign, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Campaign{}, false
	}
	return c.campaigns[i], true
}

// ParseID reads a campaign id from a path segment. Like the list parameters,
// only the leading integer counts, so "1005abc" names campaign 1005.
func ParseID(s string) (int64, bool) {
	n, ok := parseLeadingInt(s)
	if !ok {
		return 0, false
	}
	return int64(n), true
}
