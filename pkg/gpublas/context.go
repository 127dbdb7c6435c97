package gpublas

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/samcharles93/gpublas/internal/backend"
	"github.com/samcharles93/gpublas/internal/logger"
)

// Operation names reported in errors and to status hooks.
const (
	opCreate         = "create"
	opDestroy        = "destroy"
	opVersion        = "version"
	opGetPointerMode = "get_pointer_mode"
	opSetPointerMode = "set_pointer_mode"
	opGetAtomicsMode = "get_atomics_mode"
	opSetAtomicsMode = "set_atomics_mode"
	opMalloc         = "malloc"
	opFree           = "free"
	opUpload         = "upload"
	opDownload       = "download"
)

// Logger is the structured logger used by a Context.
type Logger = logger.Logger

// DeviceInfo describes the device behind a backend.
type DeviceInfo = backend.DeviceInfo

// Context owns one backend session. It is not safe for concurrent use;
// open one Context per goroutine.
type Context struct {
	lib    Library
	handle backend.Handle
	id     uuid.UUID
	log    Logger
	check  StatusCheck

	lastStatus  Status
	pointerMode PointerMode
	atomicsMode AtomicsMode
	destroyed   bool

	// resolved caches entry points by symbol name.
	resolved map[string]any
}

type options struct {
	log         Logger
	check       StatusCheck
	pointerMode any
	atomicsMode any
}

// Option configures a Context.
type Option func(*options)

// WithLogger sets the context logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSlog wraps a *slog.Logger.
func WithSlog(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = logger.New(l.Handler())
		}
	}
}

// WithStatusCheck installs a status hook at creation.
func WithStatusCheck(check StatusCheck) Option {
	return func(o *options) { o.check = check }
}

// WithPointerMode applies a pointer mode right after the session is created.
// It accepts anything SetPointerMode accepts.
func WithPointerMode(v any) Option {
	return func(o *options) { o.pointerMode = v }
}

// WithAtomicsMode applies an atomics mode right after the session is created.
func WithAtomicsMode(v any) Option {
	return func(o *options) { o.atomicsMode = v }
}

// Open loads the named backend ("auto", "cpu", "cuda" or "webgpu") and
// creates a context on it.
func Open(name string, opts ...Option) (*Context, error) {
	lib, err := backend.Load(name)
	if err != nil {
		return nil, &StatusError{Op: opCreate, Status: StatusNotInitialized, Err: err}
	}
	return NewContext(lib, opts...)
}

// Available lists the backends linked into this build, comma separated.
func Available() string {
	return backend.Available()
}

// NewContext creates a session on lib. The context must be released with
// Destroy.
func NewContext(lib Library, opts ...Option) (*Context, error) {
	o := options{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	if lib == nil {
		return nil, &StatusError{Op: opCreate, Status: StatusNotInitialized, Err: errors.New("nil library")}
	}

	h, st := lib.Create()
	if o.check != nil {
		o.check(opCreate, st)
	}
	if st != StatusSuccess {
		o.log.Warn("session create failed", "backend", lib.Name(), "status", st.String())
		return nil, &StatusError{Op: opCreate, Status: st}
	}

	id := uuid.New()
	c := &Context{
		lib:        lib,
		handle:     h,
		id:         id,
		log:        o.log.With("session", id.String(), "backend", lib.Name()),
		check:      o.check,
		lastStatus: st,
		resolved:   make(map[string]any),
	}
	c.log.Debug("session created")

	if err := c.init(o); err != nil {
		_ = c.Destroy()
		return nil, err
	}
	return c, nil
}

// init reads the session's modes and applies the requested ones.
func (c *Context) init(o options) error {
	if _, err := c.PointerMode(); err != nil {
		return err
	}
	if _, err := c.AtomicsMode(); err != nil {
		return err
	}
	if o.pointerMode != nil {
		if err := c.SetPointerMode(o.pointerMode); err != nil {
			return err
		}
	}
	if o.atomicsMode != nil {
		if err := c.SetAtomicsMode(o.atomicsMode); err != nil {
			return err
		}
	}
	return nil
}

// ID identifies the session in logs.
func (c *Context) ID() uuid.UUID { return c.id }

// Library returns the backend the context runs on.
func (c *Context) Library() Library { return c.lib }

// Backend returns the backend name.
func (c *Context) Backend() string { return c.lib.Name() }

// LastStatus returns the status of the most recent backend call.
func (c *Context) LastStatus() Status { return c.lastStatus }

// SetStatusCheck replaces the status hook. nil removes it.
func (c *Context) SetStatusCheck(check StatusCheck) { c.check = check }

// Destroyed reports whether Destroy has run.
func (c *Context) Destroyed() bool { return c.destroyed }

// Destroy releases the backend session. Calling it again is a no-op.
func (c *Context) Destroy() error {
	if c.destroyed {
		return nil
	}
	c.destroyed = true
	clear(c.resolved)
	st := c.lib.Destroy(c.handle)
	c.log.Debug("session destroyed", "status", st.String())
	return c.record(opDestroy, st)
}

// Close is Destroy.
func (c *Context) Close() error {
	return c.Destroy()
}

// Version returns the backend library version.
func (c *Context) Version() (int, error) {
	if err := c.alive(opVersion); err != nil {
		return 0, err
	}
	v, st := c.lib.Version(c.handle)
	if err := c.record(opVersion, st); err != nil {
		return 0, err
	}
	return v, nil
}

// PointerMode reads the session's pointer mode from the backend.
func (c *Context) PointerMode() (PointerMode, error) {
	if err := c.alive(opGetPointerMode); err != nil {
		return c.pointerMode, err
	}
	m, st := c.lib.PointerMode(c.handle)
	if err := c.record(opGetPointerMode, st); err != nil {
		return c.pointerMode, err
	}
	c.pointerMode = m
	return m, nil
}

// SetPointerMode sets where scalar arguments and results live. See
// ParsePointerMode for the accepted values. Anything else re-applies the
// current mode.
func (c *Context) SetPointerMode(v any) error {
	if err := c.alive(opSetPointerMode); err != nil {
		return err
	}
	mode, ok := ParsePointerMode(v)
	if !ok {
		c.log.Debug("unrecognised pointer mode, keeping current", "value", v)
		cur, err := c.PointerMode()
		if err != nil {
			return err
		}
		mode = cur
	}
	if err := c.record(opSetPointerMode, c.lib.SetPointerMode(c.handle, mode)); err != nil {
		return err
	}
	c.pointerMode = mode
	return nil
}

// AtomicsMode reads the session's atomics mode from the backend.
func (c *Context) AtomicsMode() (AtomicsMode, error) {
	if err := c.alive(opGetAtomicsMode); err != nil {
		return c.atomicsMode, err
	}
	m, st := c.lib.AtomicsMode(c.handle)
	if err := c.record(opGetAtomicsMode, st); err != nil {
		return c.atomicsMode, err
	}
	c.atomicsMode = m
	return m, nil
}

// SetAtomicsMode allows or forbids atomic reductions. See ParseAtomicsMode
// for the accepted values. Anything else re-applies the current mode.
func (c *Context) SetAtomicsMode(v any) error {
	if err := c.alive(opSetAtomicsMode); err != nil {
		return err
	}
	mode, ok := ParseAtomicsMode(v)
	if !ok {
		c.log.Debug("unrecognised atomics mode, keeping current", "value", v)
		cur, err := c.AtomicsMode()
		if err != nil {
			return err
		}
		mode = cur
	}
	if err := c.record(opSetAtomicsMode, c.lib.SetAtomicsMode(c.handle, mode)); err != nil {
		return err
	}
	c.atomicsMode = mode
	return nil
}

// DeviceInfo describes the backend's device, if the backend can.
func (c *Context) DeviceInfo() (DeviceInfo, error) {
	di, ok := c.lib.(backend.DeviceInfoer)
	if !ok {
		return DeviceInfo{Name: c.lib.Name()}, nil
	}
	return di.DeviceInfo()
}

// record stores st as the last status, runs the hook and converts failures
// into a *StatusError.
func (c *Context) record(op string, st Status) error {
	c.lastStatus = st
	if c.check != nil {
		c.check(op, st)
	}
	if st == StatusSuccess {
		return nil
	}
	return &StatusError{Op: op, Status: st}
}

// alive rejects calls on a destroyed context.
func (c *Context) alive(op string) error {
	if c.destroyed {
		return &StatusError{Op: op, Status: StatusNotInitialized, Err: ErrDestroyed}
	}
	return nil
}
