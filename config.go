package minisc

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/minisc-rt/minisc/internal/rtlog"
	"github.com/minisc-rt/minisc/internal/vm"
)

// RuntimeConfig controls the behavior of a Runtime created by NewRuntime,
// with the default implementation as NewRuntimeConfig. Every With* method
// returns a new, independent RuntimeConfig rather than mutating the
// receiver, so a base config can be shared and specialized per Runtime.
type RuntimeConfig struct {
	arenaWords   int
	stackSize    int
	stressGC     bool
	maxCallDepth int
	errorHandler func(*vm.Error)
	logOut       io.Writer
	logLevel     logrus.Level
}

// defaultConfig is cloned by NewRuntimeConfig to avoid copy/pasting the
// wrong defaults in each With* method.
var defaultConfig = &RuntimeConfig{
	arenaWords:   1 << 16,
	stackSize:    1024,
	maxCallDepth: 0, // unlimited
	logOut:       io.Discard,
	logLevel:     logrus.InfoLevel,
}

// NewRuntimeConfig returns a RuntimeConfig with defaults: a 64k-word
// semispace arena, a 1024-slot operand stack, stress-GC disabled, no call
// depth limit, and a discarding logger.
func NewRuntimeConfig() *RuntimeConfig {
	return defaultConfig.clone()
}

func (c *RuntimeConfig) clone() *RuntimeConfig {
	ret := *c
	return &ret
}

// WithArenaWords sets the word capacity of each of the two semispaces the
// collector alternates between. Total memory reserved is roughly double
// this value.
func (c *RuntimeConfig) WithArenaWords(words int) *RuntimeConfig {
	ret := c.clone()
	ret.arenaWords = words
	return ret
}

// WithStackSize sets the operand stack's capacity, in handle-sized slots.
func (c *RuntimeConfig) WithStackSize(slots int) *RuntimeConfig {
	ret := c.clone()
	ret.stackSize = slots
	return ret
}

// WithStressGC runs a full collection before every allocation when
// enabled. This is a debugging aid for exercising relocation bugs and is
// never enabled by default, since it makes every Runtime drastically
// slower.
func (c *RuntimeConfig) WithStressGC(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.stressGC = enabled
	return ret
}

// WithMaxCallDepth limits INVOKE_PROCEDURE nesting: once depth closure
// calls are outstanding (counted up on each closure invocation and down on
// each JMP), a further closure call fails with a bounds error; 0 (the
// default) means unlimited. Frames pushed by EXTEND_ENV are not counted.
func (c *RuntimeConfig) WithMaxCallDepth(depth int) *RuntimeConfig {
	ret := c.clone()
	ret.maxCallDepth = depth
	return ret
}

// WithErrorHandler installs a callback invoked whenever the VM reports a
// recoverable error, in addition to the error being returned normally from
// Runtime.Run. It is not installed on the collector.
func (c *RuntimeConfig) WithErrorHandler(fn func(*vm.Error)) *RuntimeConfig {
	ret := c.clone()
	ret.errorHandler = fn
	return ret
}

// WithLogger directs structured diagnostic logging to w at the given
// level. Defaults to a discarding logger at Info level.
func (c *RuntimeConfig) WithLogger(w io.Writer, level logrus.Level) *RuntimeConfig {
	ret := c.clone()
	ret.logOut = w
	ret.logLevel = level
	return ret
}

func (c *RuntimeConfig) newLogger() rtlog.Logger {
	if c.logOut == nil || c.logOut == io.Discard {
		return rtlog.Discard()
	}
	return rtlog.New(c.logOut, c.logLevel)
}
