// Package tokens estimates token usage when a provider response carries no
// usage metadata.
package tokens

import (
	"fmt"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Estimator counts tokens with a tiktoken encoding. Counts for non-OpenAI
// models are approximations, good enough for session accounting.
type Estimator struct {
	encoding tokenizer.Encoding

	once  sync.Once
	codec tokenizer.Codec
	err   error
}

// NewEstimator returns an estimator backed by the cl100k_base encoding.
func NewEstimator() *Estimator {
	return &Estimator{encoding: tokenizer.Cl100kBase}
}

func (e *Estimator) load() (tokenizer.Codec, error) {
	e.once.Do(func() {
		e.codec, e.err = tokenizer.Get(e.encoding)
		if e.err != nil {
			e.err = fmt.Errorf("failed to get tokenizer encoding: %w", e.err)
		}
	})
	return e.codec, e.err
}

// Count returns the number of tokens in texts combined.
func (e *Estimator) Count(texts ...string) (int, error) {
	codec, err := e.load()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, text := range texts {
		if text == "" {
			continue
		}
		ids, _, err := codec.Encode(text)
		if err != nil {
			return 0, fmt.Errorf("encode text: %w", err)
		}
		total += len(ids)
	}
	return total, nil
}

// CountOrZero is Count with errors swallowed.
func (e *Estimator) CountOrZero(texts ...string) int {
	n, err := e.Count(texts...)
	if err != nil {
		return 0
	}
	return n
}
