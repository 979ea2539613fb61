// Package search provides a simple, deterministic, concurrency-safe in-memory
// search index over chat history. It is intentionally small and
// dependency-free:
//
//   - No logging in the library (callers decide how/what to log)
//   - Unicode-aware tokenization with optional stop-word removal
//   - Immutable, read-only index after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//
// Each indexed document is one exchange: the user message and the model
// response tokenized together. Scoring uses Jaccard similarity between the
// query token set and the exchange's token set.
package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/avolkov/orchat/internal/domain"
)

// Result is a ranked exchange with its similarity score.
type Result struct {
	Message domain.Message
	Score   float64
}

// Index is the minimal interface implemented by all search indices.
type Index interface {
	TopK(query string, k int) []Result
}

// Option configures index construction.
type Option func(*config)

type config struct {
	stopwords map[string]struct{}
	maxDocs   int
}

// WithStopwords removes the given words from both documents and queries.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMaxDocs caps how many exchanges are indexed (0 = unlimited).
func WithMaxDocs(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDocs = n
		}
	}
}

type doc struct {
	msg    domain.Message
	tokens map[string]struct{}
}

type index struct {
	cfg  config
	docs []doc
}

// NewFromMessages builds an Index over the given exchanges. Exchanges whose
// text yields no tokens are skipped.
func NewFromMessages(msgs []domain.Message, opts ...Option) Index {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	docs := make([]doc, 0, len(msgs))
	for _, m := range msgs {
		toks := tokenize(m.UserMessage+" "+m.AIResponse, cfg.stopwords)
		if len(toks) == 0 {
			continue
		}
		docs = append(docs, doc{msg: m, tokens: toks})
		if cfg.maxDocs > 0 && len(docs) >= cfg.maxDocs {
			break
		}
	}
	return &index{cfg: cfg, docs: docs}
}

// TopK returns up to k best-matching exchanges by Jaccard similarity.
// Ties break toward the more recent exchange.
func (i *index) TopK(q string, k int) []Result {
	if len(i.docs) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 3
	}
	qTokens := tokenize(q, i.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}

	buf := make([]Result, 0, len(i.docs))
	for _, d := range i.docs {
		over := overlap(qTokens, d.tokens)
		if over == 0 {
			continue
		}
		union := float64(len(qTokens) + len(d.tokens) - over)
		if union <= 0 {
			continue
		}
		buf = append(buf, Result{Message: d.msg, Score: float64(over) / union})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].Score != buf[b].Score {
			return buf[a].Score > buf[b].Score
		}
		if !buf[a].Message.Timestamp.Equal(buf[b].Message.Timestamp) {
			return buf[a].Message.Timestamp.After(buf[b].Message.Timestamp)
		}
		return buf[a].Message.ID > buf[b].Message.ID
	})

	if k > len(buf) {
		k = len(buf)
	}
	return buf[:k]
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
