// Package passage selects the texts typed during a test.
package passage

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

// ErrEmpty is returned when a passage set has no usable entries.
var ErrEmpty = errors.New("passage set is empty")

var builtin = []string{
	"Life is just like coding - you try, fail, and try again. Sometimes the solution is simple, sometimes it's hidden. But every bug you fix makes you better.",
	"Success is not a one-time event, it's a process. It comes from showing up every single day. Even when motivation is low discipline keeps you moving.",
	"The internet is full of answers. But the right answer comes only when you ask the right question. So think sharp, and learn smarter.",
	"A good developer knows the syntax. A great developer knows how to solve problems. And the best developer never stops learning.",
	"Sometimes, you need to take a break. The best ideas often come when you’re not looking for them.",
	"Challenges are not meant to stop you. They are meant to test your courage and patience. Overcome them, and you’ll discover your real strength.",
	"Creativity is intelligence having fun. Mix knowledge with imagination. That’s when innovation happens.",
}

// Builtin returns a copy of the built-in passage set.
func Builtin() []string {
	return append([]string(nil), builtin...)
}

// Source picks passages uniformly at random, with replacement.
type Source struct {
	rnd      *rand.Rand
	passages []string
}

// Option configures a Source.
type Option func(*sourceOptions)

type sourceOptions struct {
	seed        int64
	seeded      bool
	asciiQuotes bool
}

// WithSeed makes selection deterministic.
func WithSeed(seed int64) Option {
	return func(o *sourceOptions) {
		o.seed = seed
		o.seeded = true
	}
}

// WithASCIIQuotes rewrites typographic punctuation to keyboard ASCII.
func WithASCIIQuotes() Option {
	return func(o *sourceOptions) {
		o.asciiQuotes = true
	}
}

// New builds a Source from the given passages. Blank entries are dropped.
func New(passages []string, opts ...Option) (*Source, error) {
	var o sourceOptions
	for _, opt := range opts {
		opt(&o)
	}
	kept := make([]string, 0, len(passages))
	for _, p := range passages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if o.asciiQuotes {
			p = ASCIIQuotes(p)
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return nil, ErrEmpty
	}
	seed := o.seed
	if !o.seeded {
		seed = time.Now().UnixNano()
	}
	return &Source{rnd: rand.New(rand.NewSource(seed)), passages: kept}, nil
}

// Default returns a Source over the built-in passages.
func Default(opts ...Option) *Source {
	src, err := New(builtin, opts...)
	if err != nil {
		// The built-in set is never empty.
		panic(err)
	}
	return src
}

// Select returns a random passage.
func (s *Source) Select() string {
	return s.passages[s.rnd.Intn(len(s.passages))]
}

// Passages returns the active set.
func (s *Source) Passages() []string {
	return append([]string(nil), s.passages...)
}
