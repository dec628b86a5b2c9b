//go:build property

package form

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/cmdform/internal/introspect"
)

// TestBuildSchemaProperties validates the structural mapping invariant:
// for any spec list over supported types the schema has the same length
// and order, with every field backed by exactly one parameter.
func TestBuildSchemaProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	genSpec := gopter.CombineGens(
		gen.Identifier(),
		gen.OneConstOf("int", "int64", "uint", "float64", "string", "bool", "duration", "datetime", "stringSlice", "count"),
		gen.AlphaString(),
	).Map(func(vals []interface{}) introspect.ParamSpec {
		return introspect.ParamSpec{
			Name: vals[0].(string),
			Type: vals[1].(string),
			Help: vals[2].(string),
		}
	})

	properties.Property("schema preserves length and order", prop.ForAll(
		func(specs []introspect.ParamSpec) bool {
			schema, err := BuildSchema("prop", specs)
			if err != nil {
				return false
			}
			if len(schema.Fields) != len(specs) {
				return false
			}
			for i, spec := range specs {
				if schema.Fields[i].Name != spec.Name {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genSpec),
	))

	properties.Property("every field resolves back to its parameter", prop.ForAll(
		func(specs []introspect.ParamSpec) bool {
			seen := map[string]bool{}
			unique := specs[:0:0]
			for _, spec := range specs {
				if !seen[spec.Name] {
					seen[spec.Name] = true
					unique = append(unique, spec)
				}
			}

			schema, err := BuildSchema("prop", unique)
			if err != nil {
				return false
			}
			for _, spec := range unique {
				field, ok := schema.Field(spec.Name)
				if !ok || field.FlagType != spec.Type {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genSpec),
	))

	properties.Property("unsupported types always fail", prop.ForAll(
		func(specs []introspect.ParamSpec, badName string) bool {
			withBad := append(append([]introspect.ParamSpec{}, specs...), introspect.ParamSpec{
				Name: badName + "_bad",
				Type: "ipNet",
			})
			_, err := BuildSchema("prop", withBad)
			return err != nil
		},
		gen.SliceOf(genSpec),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
