package ilo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	modellib "github.com/ygrebnov/model"

	"github.com/axesilo/ilo/streams"
)

// Exported error categories returned by this package. They are wrapped into
// returned errors so callers can detect error classes with errors.Is/As.
//
// I/O class (underlying filesystem operation failed):
//   - ErrInvalidName: the config name is not a bare path component.
//   - ErrEnsureConfigDir: the config home could not be created.
//   - ErrRead: the config file exists but could not be read.
//   - ErrWrite: the encoded config could not be written or renamed into place.
//
// Content class:
//   - ErrDecode: the file content does not fit the caller's type. Load never
//     falls back to defaults on a decode failure; a corrupt or mistyped file
//     is surfaced, not silently discarded.
//   - ErrEncode: the in-memory value cannot be represented by the codec.
var (
	ErrInvalidName     = errors.New("invalid config name")
	ErrEnsureConfigDir = errors.New("ensure config dir")
	ErrRead            = errors.New("read config file")
	ErrDecode          = errors.New("decode config file")
	ErrEncode          = errors.New("encode config")
	ErrWrite           = errors.New("write config file")
)

// Config owns one in-memory value of the caller's type T together with the
// file path it was loaded from and will be saved to. It is created by Load
// and persists nothing until Save is called explicitly; a Config dropped
// without Save loses its mutations.
//
// Config performs no internal locking. A single handle must not be used from
// multiple goroutines without external synchronization, and independent
// handles for the same name race on Save (last writer wins).
type Config[T any] struct {
	name  string
	path  string
	codec Codec
	data  *T
}

// settings collects the Load-time options before a Config is constructed.
type settings[T any] struct {
	codec        Codec
	defaultFn    func() *T
	streams      streams.IOStreams
	envOverrides bool
	envPrefix    string
	schema       string
	modelInit    ModelInit[T]
}

// Option configures Load. Options are composable and can be passed in any
// order.
type Option[T any] func(*settings[T])

// WithCodec selects the on-disk encoding (and thereby the file extension).
// The default is JSON. Panics if c is nil.
func WithCodec[T any](c Codec) Option[T] {
	return func(s *settings[T]) {
		if c == nil {
			panic("ilo: WithCodec: codec cannot be nil")
		}
		s.codec = c
	}
}

// WithDefaultFn registers a factory that returns a new *T used as the
// first-run value when no config file exists yet. Without it, Load uses a
// zero-value *T. Panics if fn is nil.
func WithDefaultFn[T any](fn func() *T) Option[T] {
	return func(s *settings[T]) {
		if fn == nil {
			panic("ilo: WithDefaultFn: fn cannot be nil")
		}
		s.defaultFn = fn
	}
}

// WithStreams wires user-facing message streams for load notifications
// ("loaded from …", "using defaults"). Pass adapters from the companion
// streams package to route output to buffers, logs, or io.Discard.
func WithStreams[T any](st streams.IOStreams) Option[T] {
	return func(s *settings[T]) {
		s.streams = st
	}
}

// WithEnvOverrides applies environment variables onto the loaded value's
// exported fields, after the file (or defaults) has been applied. Variable
// names are built from prefix plus each field's `env` tag or its name in
// SCREAMING_SNAKE_CASE; an empty prefix uses the bare segment names.
//
// Overrides change only the in-memory value; Save persists the overridden
// state. Leave this option out when the file must round-trip untouched.
func WithEnvOverrides[T any](prefix string) Option[T] {
	return func(s *settings[T]) {
		s.envOverrides = true
		s.envPrefix = prefix
	}
}

// WithSchema validates the file content against a JSON schema before it is
// decoded into T, so shape violations report the offending location instead
// of a bare unmarshal error. Violations surface as ErrDecode. The schema is
// checked against the codec's generic decoding of the file; it is intended
// for the JSON codec. Panics if schema is empty.
func WithSchema[T any](schema string) Option[T] {
	return func(s *settings[T]) {
		if schema == "" {
			panic("ilo: WithSchema: schema cannot be empty")
		}
		s.schema = schema
	}
}

// ModelInit is a constructor hook that binds a model.Model[T] to the value
// managed by a Config. Return the constructed model or an error.
type ModelInit[T any] func(*T) (*modellib.Model[T], error)

// WithModel enables integration with github.com/ygrebnov/model. The init
// function is called once during Load to build a model.Model[T] bound to the
// value being loaded. Load will then:
//   - call SetDefaults() before the file is applied, so `default` tags fill
//     zero values, and
//   - call Validate() after the file and any env overrides are applied.
//
// Panics if init is nil.
func WithModel[T any](init ModelInit[T]) Option[T] {
	return func(s *settings[T]) {
		if init == nil {
			panic("ilo: WithModel: init cannot be nil")
		}
		s.modelInit = init
	}
}

// Load resolves the path for name, reads and decodes the config file there,
// and returns a Config wrapping the result. When no file exists the returned
// Config holds the default value; the file itself is only created by Save,
// so a load alone never writes config data. Load may create the config home
// directory as a side effect of path resolution.
func Load[T any](name string, opts ...Option[T]) (*Config[T], error) {
	s := &settings[T]{codec: JSON}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultFn == nil {
		s.defaultFn = func() *T { var t T; return &t }
	}

	path, err := resolveConfigPath(name, s.codec.Extension())
	if err != nil {
		return nil, err
	}

	data := s.defaultFn()

	var mdl *modellib.Model[T]
	if s.modelInit != nil {
		mdl, err = s.modelInit(data)
		if err != nil {
			return nil, err
		}
		// Apply defaults before the file, so they only fill zero values.
		if err := mdl.SetDefaults(); err != nil {
			return nil, err
		}
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if s.schema != "" {
			if err := validateSchema(s.schema, s.codec, raw, path); err != nil {
				return nil, err
			}
		}
		if err := s.codec.Decode(raw, data); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
		}
		if s.streams != nil && s.streams.Out() != nil {
			fmt.Fprintf(s.streams.Out(), "ilo: loaded config from %s\n", path)
		}

	case errors.Is(err, os.ErrNotExist):
		// First run: keep the defaults in memory only.
		if s.streams != nil && s.streams.Out() != nil {
			fmt.Fprintf(s.streams.Out(), "ilo: no config file at %s; using defaults\n", path)
		}

	default:
		return nil, fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}

	if s.envOverrides {
		overrideFromEnv(data, s.envPrefix)
	}

	if mdl != nil {
		if err := mdl.Validate(); err != nil {
			return nil, err
		}
	}

	return &Config[T]{
		name:  name,
		path:  path,
		codec: s.codec,
		data:  data,
	}, nil
}

// Data returns the in-memory config value. The pointer aliases the handle's
// single owned instance: mutations through it are picked up by the next
// Save. Callers must not share the pointer across goroutines without
// external synchronization.
func (c *Config[T]) Data() *T { return c.data }

// Update runs fn against the owned value, scoping a mutation to one call
// site. It is a convenience over Data for callers that prefer not to hold
// the pointer.
func (c *Config[T]) Update(fn func(*T)) { fn(c.data) }

// Path returns the resolved file path this Config was loaded from and will
// be saved to. The path is fixed at Load time; later changes to
// ILO_CONFIG_HOME affect new loads only.
func (c *Config[T]) Path() string { return c.path }

// Name returns the config name the Config was loaded under.
func (c *Config[T]) Name() string { return c.name }

func (c *Config[T]) String() string {
	return fmt.Sprintf("Config[%T]{name: %s, path: %s, data: %+v}", *new(T), c.name, c.path, *c.data)
}

// Save encodes the current value and writes it durably to the resolved path.
// The content goes to a temp file in the same directory first and is renamed
// onto the final path, so any observer sees either the old complete file or
// the new complete file, never a partial write. A failure after the temp
// write leaves the previous file untouched.
//
// Save always re-encodes and rewrites; there is no dirty tracking, and two
// consecutive saves with no mutation in between produce byte-identical
// content. Created files are user-only (0600) since configs may hold
// credentials.
func (c *Config[T]) Save() error {
	data, err := encode(c.codec, c.data)
	if err != nil {
		return err
	}
	// The config home may have been removed since Load.
	if err := ensureDir(filepath.Dir(c.path)); err != nil {
		return errors.Join(ErrEnsureConfigDir, err)
	}
	return writeFileAtomic(c.path, data)
}
