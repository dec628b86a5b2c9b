// Package introspect extracts parameter metadata from cobra commands.
//
// A cobra command already carries explicit, statically declared metadata on
// its pflag set (name, type, default, usage, annotations), so extraction is
// a plain read of that data rather than reflection. The resulting ParamSpec
// list is the contract the form layer builds on: ordered, immutable, one
// entry per flag.
package introspect

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conneroisu/cmdform/internal/errors"
)

// FileFlagAnnotation marks a string flag whose value is a path that should
// be fed from a file upload rather than typed into a text input.
const FileFlagAnnotation = "cmdform_file_flag"

// ParamSpec is an immutable snapshot of one command flag.
type ParamSpec struct {
	// Name is the long flag name.
	Name string

	// Type is the pflag value type ("int", "string", "bool", ...).
	Type string

	// Default is the flag's default value in pflag's string encoding.
	Default string

	// Help is the flag usage text.
	Help string

	// Required reports whether the flag was marked required via
	// cobra.MarkFlagRequired.
	Required bool

	// Hidden flags are excluded from generated forms.
	Hidden bool

	// Annotations carries the flag's annotation map. Used for the file
	// upload marker; copied so later flag mutation cannot leak in.
	Annotations map[string][]string
}

// File reports whether the parameter is marked as a file upload.
func (p ParamSpec) File() bool {
	vals, ok := p.Annotations[FileFlagAnnotation]
	return ok && len(vals) > 0 && vals[0] == "true"
}

// MarkFlagFile annotates a string flag on cmd as file-fed. Returns an
// error if the flag does not exist.
func MarkFlagFile(cmd *cobra.Command, name string) error {
	return cmd.Flags().SetAnnotation(name, FileFlagAnnotation, []string{"true"})
}

// Command extracts the ordered ParamSpec list from a cobra command.
//
// The auto-generated help flag is skipped. Order follows pflag's visit
// order, which is deterministic for a given command definition. Fails with
// a configuration error when the command is nil or has no runnable
// callback, since such a command cannot be bridged.
func Command(cmd *cobra.Command) ([]ParamSpec, error) {
	if cmd == nil {
		return nil, errors.NewConfigurationError("", "command is nil")
	}
	if cmd.Run == nil && cmd.RunE == nil {
		return nil, errors.NewConfigurationError(cmd.Name(), "command has no runnable callback")
	}

	var specs []ParamSpec
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		specs = append(specs, flagSpec(f))
	})

	return specs, nil
}

func flagSpec(f *pflag.Flag) ParamSpec {
	spec := ParamSpec{
		Name:     f.Name,
		Type:     f.Value.Type(),
		Default:  f.DefValue,
		Help:     f.Usage,
		Required: flagRequired(f),
		Hidden:   f.Hidden,
	}

	if len(f.Annotations) > 0 {
		spec.Annotations = make(map[string][]string, len(f.Annotations))
		for k, v := range f.Annotations {
			vals := make([]string, len(v))
			copy(vals, v)
			spec.Annotations[k] = vals
		}
	}

	return spec
}

func flagRequired(f *pflag.Flag) bool {
	vals, ok := f.Annotations[cobra.BashCompOneRequiredFlag]
	return ok && len(vals) > 0 && vals[0] == "true"
}
