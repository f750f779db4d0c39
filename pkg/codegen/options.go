// Package codegen turns a canonical entity model into a decorated class
// declaration. It owns the type and literal mappers, the permission
// synthesizer, the field and member compilers and the class assembler; the
// produced tree is handed to an external renderer.
package codegen

import "github.com/rs/zerolog"

// Options are the caller-tunable knobs of one compilation. An Options value
// is passed explicitly into the entry point; there is no process-wide state.
type Options struct {
	// NameReplacement substitutes characters that are not allowed in an
	// identifier when deriving the class name from the entity name.
	NameReplacement string

	// Log receives diagnostic events. The compiler itself is pure; nothing
	// is ever logged on the success path above debug level.
	Log zerolog.Logger
}

// DefaultOptions returns the default compilation options.
func DefaultOptions() *Options {
	return &Options{
		NameReplacement: "_",
		Log:             zerolog.Nop(),
	}
}

func (o *Options) withDefaults() *Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.NameReplacement == "" {
		out.NameReplacement = "_"
	}
	return &out
}
