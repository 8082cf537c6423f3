package domain

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
)

const (
	sessionCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	sessionCodeSuffix   = 5
)

var sessionCodePattern = regexp.MustCompile(`^\d{6}-[0-9A-Z]{5}$`)

// SessionCodeGenerator issues human-readable order references of the form YYMMDD-XXXXX.
// Codes are not guaranteed unique.
type SessionCodeGenerator struct {
	now  func() time.Time
	loc  *time.Location
	intn func(n int) int
}

type SessionCodeOption func(*SessionCodeGenerator)

func WithCodeClock(now func() time.Time) SessionCodeOption {
	return func(g *SessionCodeGenerator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithCodeLocation dates codes in loc, normally the couple's time zone, so a guest checking out
// after local midnight gets the local day. Defaults to UTC.
func WithCodeLocation(loc *time.Location) SessionCodeOption {
	return func(g *SessionCodeGenerator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// WithCodeRand sets the random source used for the suffix.
func WithCodeRand(r *rand.Rand) SessionCodeOption {
	return func(g *SessionCodeGenerator) {
		if r != nil {
			g.intn = r.IntN
		}
	}
}

func NewSessionCodeGenerator(opts ...SessionCodeOption) *SessionCodeGenerator {
	g := &SessionCodeGenerator{now: time.Now, loc: time.UTC, intn: rand.IntN}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Next returns a code dated with the current day in the generator's location.
func (g *SessionCodeGenerator) Next() string {
	var b strings.Builder
	b.Grow(6 + 1 + sessionCodeSuffix)
	b.WriteString(g.now().In(g.loc).Format("060102"))
	b.WriteByte('-')
	for i := 0; i < sessionCodeSuffix; i++ {
		b.WriteByte(sessionCodeAlphabet[g.intn(len(sessionCodeAlphabet))])
	}
	return b.String()
}

// IsSessionCode reports whether code has the YYMMDD-XXXXX shape.
func IsSessionCode(code string) bool {
	return sessionCodePattern.MatchString(code)
}
