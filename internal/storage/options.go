package storage

import (
	"os"
	"time"
)

// Options configures a Local store.
type Options struct {
	FileMode os.FileMode      // permission bits for data files and sidecars
	DirMode  os.FileMode      // permission bits for the files and metadata directories
	Clock    func() time.Time // source of key timestamps and uploadedAt
}

// OptionFunc is a functional option for Local and S3.
type OptionFunc func(opts *Options)

// WithFileMode sets the permission bits for written files. Default 0644.
func WithFileMode(mode os.FileMode) OptionFunc {
	return func(opts *Options) {
		opts.FileMode = mode
	}
}

// WithDirMode sets the permission bits for created directories. Default 0755.
func WithDirMode(mode os.FileMode) OptionFunc {
	return func(opts *Options) {
		opts.DirMode = mode
	}
}

// WithClock replaces time.Now. Tests use it to pin generated keys.
func WithClock(clock func() time.Time) OptionFunc {
	return func(opts *Options) {
		opts.Clock = clock
	}
}

func buildOptions(fns []OptionFunc) *Options {
	opts := &Options{
		FileMode: 0o644,
		DirMode:  0o755,
		Clock:    time.Now,
	}
	for _, fn := range fns {
		fn(opts)
	}
	return opts
}
