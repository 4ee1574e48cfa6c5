package chunk

import (
	"errors"
	"fmt"
)

// Defaults used when the configuration document omits the chunker keys.
const (
	DefaultMaxSize      = 2000
	DefaultTolerance    = 0.10
	DefaultMinThreshold = 0.50
)

// ErrInvalidParameter is returned by Params.Validate.
var ErrInvalidParameter = errors.New("invalid chunk parameter")

// Params controls chunk sizing.
type Params struct {
	MaxSize      int     // target chunk length in characters
	Tolerance    float64 // fraction a chunk may grow past MaxSize before it is closed
	MinThreshold float64 // fraction of MaxSize below which a chunk is folded into its predecessor
}

// DefaultParams returns 2000 / 0.10 / 0.50.
func DefaultParams() Params {
	return Params{
		MaxSize:      DefaultMaxSize,
		Tolerance:    DefaultTolerance,
		MinThreshold: DefaultMinThreshold,
	}
}

// Validate reports parameters the pipeline cannot give meaningful results for.
func (p Params) Validate() error {
	if p.MaxSize <= 0 {
		return fmt.Errorf("%w: max size must be positive, got %d", ErrInvalidParameter, p.MaxSize)
	}
	if p.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be >= 0, got %g", ErrInvalidParameter, p.Tolerance)
	}
	if p.MinThreshold < 0 || p.MinThreshold >= 1 {
		return fmt.Errorf("%w: min threshold must be in [0,1), got %g", ErrInvalidParameter, p.MinThreshold)
	}
	return nil
}

// MaxAllowed is the hard ceiling a chunk may reach while units are added.
// The product is truncated, so 100 with 0.10 gives 110.
func (p Params) MaxAllowed() int {
	return int(float64(p.MaxSize) * (1 + p.Tolerance))
}

// MinSize is the length below which a chunk counts as short.
func (p Params) MinSize() int {
	return int(float64(p.MaxSize) * p.MinThreshold)
}
