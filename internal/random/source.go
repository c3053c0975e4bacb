// Package random provides the seeded draw source used to synthesize campaigns.
package random

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

const day = 24 * time.Hour

// Source is a reproducible stream of draws. Every method that returns a
// random value advances the stream, so callers must keep their draw order
// stable to get identical output for the same seed.
//
// A Source is not safe for concurrent use.
type Source struct {
	faker *gofakeit.Faker
}

// New creates a source seeded with seed. A zero seed makes the underlying
// faker pick a random seed, so reproducible callers must pass a non-zero value.
func New(seed int64) *Source {
	return &Source{faker: gofakeit.New(seed)}
}

// Int draws an integer in [min, max]. Negative bounds are clamped to zero and
// an inverted range collapses to min.
func (s *Source) Int(min, max int) int {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return s.faker.IntRange(min, max)
}

// Float draws a float in [min, max).
func (s *Source) Float(min, max float64) float64 {
	if max < min {
		max = min
	}
	return s.faker.Float64Range(min, max)
}

// Bool draws a fair coin.
func (s *Source) Bool() bool {
	return s.faker.Bool()
}

// Chance returns true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.faker.Float64() < p
}

// Recent draws a time within the given number of days before ref.
func (s *Source) Recent(days int, ref time.Time) time.Time {
	return s.faker.DateRange(ref.Add(-time.Duration(days)*day), ref).UTC()
}

// Soon draws a time within the given number of days after ref.
func (s *Source) Soon(days int, ref time.Time) time.Time {
	return s.faker.DateRange(ref, ref.Add(time.Duration(days)*day)).UTC()
}

// Past draws a time within the given number of years before ref.
func (s *Source) Past(years int, ref time.Time) time.Time {
	return s.faker.DateRange(ref.AddDate(-years, 0, 0), ref).UTC()
}

// Pick draws one element of choices uniformly.
func (s *Source) Pick(choices []string) string {
	if len(choices) == 0 {
		return ""
	}
	return s.faker.RandomString(choices)
}

// FloorScaled returns floor(n * ratio) clamped to [0, n], where ratio is a
// fresh draw from [min, max).
func (s *Source) FloorScaled(n int, min, max float64) int {
	v := int(math.Floor(float64(n) * s.Float(min, max)))
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}

// BuzzPhrase draws a short marketing phrase, used for campaign names.
func (s *Source) BuzzPhrase() string {
	return s.faker.BS() + " " + s.faker.BuzzWord() + " " + s.faker.BS()
}

func (s *Source) Sentence() string {
	return s.faker.Sentence(s.faker.IntRange(5, 10))
}

func (s *Source) Paragraph() string {
	return s.faker.Paragraph(1, s.faker.IntRange(3, 5), 8, " ")
}

func (s *Source) URL() string {
	return s.faker.URL()
}

func (s *Source) IPv4() string {
	return s.faker.IPv4Address()
}

// UUID draws a version 4 UUID from the seeded stream rather than crypto/rand.
func (s *Source) UUID() uuid.UUID {
	id, err := uuid.NewRandomFromReader(s.faker.Rand)
	if err != nil {
		// math/rand never fails a read
		panic(err)
	}
	return id
}

// Slug lowercases s and joins its alphanumeric runs with dashes. It does not
// draw.
func Slug(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
