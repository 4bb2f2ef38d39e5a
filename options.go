package sigil

import (
	"fmt"
	"io/fs"
	"time"
)

// defaultMaxDepth bounds re-entrant include expansion and loop-body
// recursion. Directives beyond the bound are left unexpanded in the output.
const defaultMaxDepth = 10

type nowFunc func() time.Time

// Config is the engine configuration, assembled from options.
type Config struct {
	fs fs.FS

	root     optionVal[string]
	maxDepth optionVal[int]
	now      optionVal[nowFunc]
}

// Option configures the engine.
type Option func(*Config)

// WithRoot uses the subdirectory dir of the filesystem as the views root.
func WithRoot(dir string) Option {
	return func(c *Config) {
		c.root = newVal(dir)
	}
}

// WithMaxDepth overrides the include expansion depth bound.
func WithMaxDepth(n int) Option {
	return func(c *Config) {
		c.maxDepth = newVal(n)
	}
}

// WithClock overrides the clock used by the date directive. Useful in tests.
func WithClock(now nowFunc) Option {
	return func(c *Config) {
		c.now = newVal(now)
	}
}

func setup(c *Config, options ...Option) error {
	// apply options
	for _, opt := range options {
		opt(c)
	}

	// root
	if c.root.set {
		sub, err := fs.Sub(c.fs, c.root.val)
		if err != nil {
			return fmt.Errorf("error setting subdirectory '%s': %w", c.root.val, err)
		}
		c.fs = sub
	}

	// depth bound
	if !c.maxDepth.set || c.maxDepth.val <= 0 {
		c.maxDepth.update(defaultMaxDepth)
	}

	// clock
	if !c.now.set || c.now.val == nil {
		c.now.update(time.Now)
	}

	return nil
}

type optionVal[T any] struct {
	val T
	set bool
}

func newVal[T any](val T) optionVal[T] {
	return optionVal[T]{val: val, set: true}
}

func (o *optionVal[T]) update(val T) {
	o.val = val
}
