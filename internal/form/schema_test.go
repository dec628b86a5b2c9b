package form

import (
	"net"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/cmdform/internal/errors"
	"github.com/conneroisu/cmdform/internal/introspect"
)

func specsFor(t *testing.T, build func(cmd *cobra.Command)) []introspect.ParamSpec {
	t.Helper()
	cmd := &cobra.Command{
		Use: "test",
		Run: func(cmd *cobra.Command, args []string) {},
	}
	build(cmd)
	specs, err := introspect.Command(cmd)
	require.NoError(t, err)
	return specs
}

func TestBuildSchemaMapsTypes(t *testing.T) {
	specs := specsFor(t, func(cmd *cobra.Command) {
		cmd.Flags().Int("count", 2, "how many")
		cmd.Flags().String("text", "", "what")
		cmd.Flags().Bool("verbose", false, "loud")
		cmd.Flags().Duration("delay", 0, "pause")
		cmd.Flags().Float64("ratio", 1.5, "scale")
		cmd.Flags().StringSlice("tags", []string{"a", "b"}, "labels")
	})

	schema, err := BuildSchema("test", specs)
	require.NoError(t, err)
	require.Len(t, schema.Fields, len(specs))

	want := map[string]FieldType{
		"count":   FieldNumber,
		"text":    FieldText,
		"verbose": FieldCheckbox,
		"delay":   FieldDuration,
		"ratio":   FieldNumber,
		"tags":    FieldList,
	}
	for name, fieldType := range want {
		field, ok := schema.Field(name)
		require.True(t, ok, "missing field %s", name)
		assert.Equal(t, fieldType, field.Type, "field %s", name)
	}
}

func TestBuildSchemaPreservesOrder(t *testing.T) {
	specs := specsFor(t, func(cmd *cobra.Command) {
		cmd.Flags().Int("count", 2, "")
		cmd.Flags().String("text", "", "")
		cmd.Flags().Bool("verbose", false, "")
	})

	schema, err := BuildSchema("test", specs)
	require.NoError(t, err)
	require.Len(t, schema.Fields, len(specs))
	for i, spec := range specs {
		assert.Equal(t, spec.Name, schema.Fields[i].Name)
	}
}

func TestBuildSchemaUnsupportedType(t *testing.T) {
	specs := specsFor(t, func(cmd *cobra.Command) {
		cmd.Flags().IP("addr", net.IPv4(127, 0, 0, 1), "listen address")
	})

	_, err := BuildSchema("test", specs)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedTypeError(err))
	assert.Contains(t, err.Error(), `"ip"`)
}

func TestBuildSchemaFileField(t *testing.T) {
	specs := specsFor(t, func(cmd *cobra.Command) {
		cmd.Flags().String("input", "", "file to read")
		require.NoError(t, introspect.MarkFlagFile(cmd, "input"))
	})

	schema, err := BuildSchema("test", specs)
	require.NoError(t, err)
	field, ok := schema.Field("input")
	require.True(t, ok)
	assert.Equal(t, FieldFile, field.Type)
}

func TestBuildSchemaFileAnnotationOnNonString(t *testing.T) {
	specs := specsFor(t, func(cmd *cobra.Command) {
		cmd.Flags().Int("input", 0, "not a path")
		require.NoError(t, introspect.MarkFlagFile(cmd, "input"))
	})

	_, err := BuildSchema("test", specs)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedTypeError(err))
}

func TestFieldDefaultDisplay(t *testing.T) {
	assert.Equal(t, "a,b", Field{Type: FieldList, Default: "[a,b]"}.DefaultDisplay())
	assert.Equal(t, "", Field{Type: FieldList, Default: "[]"}.DefaultDisplay())
	assert.Equal(t, "2", Field{Type: FieldNumber, Default: "2"}.DefaultDisplay())
	assert.True(t, Field{Type: FieldCheckbox, Default: "true"}.DefaultChecked())
	assert.False(t, Field{Type: FieldCheckbox, Default: "false"}.DefaultChecked())
}
