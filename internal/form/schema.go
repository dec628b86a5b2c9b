package form

import (
	"github.com/conneroisu/cmdform/internal/errors"
	"github.com/conneroisu/cmdform/internal/introspect"
)

// numberFlagTypes are the pflag value types rendered as numeric inputs.
var numberFlagTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true,
	"count": true,
}

// listFlagTypes are the pflag value types rendered as comma separated text.
var listFlagTypes = map[string]bool{
	"stringSlice": true,
	"stringArray": true,
}

// Schema is the ordered field list for one command's form. Built once per
// command and reused for every request.
type Schema struct {
	Command string
	Fields  []Field

	byName map[string]int
}

// BuildSchema maps a ParamSpec list 1:1 onto form fields, preserving order.
// An unmapped flag type fails the whole build with an unsupported-type
// error; no field is ever inferred.
func BuildSchema(command string, specs []introspect.ParamSpec) (*Schema, error) {
	schema := &Schema{
		Command: command,
		Fields:  make([]Field, 0, len(specs)),
		byName:  make(map[string]int, len(specs)),
	}

	for _, spec := range specs {
		fieldType, err := fieldTypeFor(command, spec)
		if err != nil {
			return nil, err
		}
		schema.byName[spec.Name] = len(schema.Fields)
		schema.Fields = append(schema.Fields, Field{
			Name:     spec.Name,
			Type:     fieldType,
			FlagType: spec.Type,
			Label:    spec.Name,
			Help:     spec.Help,
			Required: spec.Required,
			Default:  spec.Default,
		})
	}

	return schema, nil
}

// Field returns the field for a parameter name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

func fieldTypeFor(command string, spec introspect.ParamSpec) (FieldType, error) {
	if spec.File() {
		if spec.Type != "string" {
			return 0, errors.NewUnsupportedTypeError(command, spec.Name, spec.Type).
				WithContext("reason", "file flags must be string valued")
		}
		return FieldFile, nil
	}

	switch {
	case spec.Type == "string":
		return FieldText, nil
	case spec.Type == "bool":
		return FieldCheckbox, nil
	case spec.Type == "duration":
		return FieldDuration, nil
	case spec.Type == "time" || spec.Type == "datetime":
		return FieldDateTime, nil
	case numberFlagTypes[spec.Type]:
		return FieldNumber, nil
	case listFlagTypes[spec.Type]:
		return FieldList, nil
	default:
		return 0, errors.NewUnsupportedTypeError(command, spec.Name, spec.Type)
	}
}
