package openapi

import (
	"encoding"
	"encoding/json"
	"fmt"
	"path"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/spec"
	"github.com/google/uuid"
)

var (
	timeType          = reflect.TypeFor[time.Time]()
	uuidType          = reflect.TypeFor[uuid.UUID]()
	rawMessageType    = reflect.TypeFor[json.RawMessage]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// registry converts Go types to schemas. Named struct types become shared
// definitions referenced with $ref.
type registry struct {
	defs   spec.Definitions
	names  map[reflect.Type]string
	byName map[string]reflect.Type
}

func newRegistry(defs spec.Definitions) *registry {
	return &registry{
		defs:   defs,
		names:  make(map[reflect.Type]string),
		byName: make(map[string]reflect.Type),
	}
}

func (g *registry) schemaFor(t reflect.Type) (*spec.Schema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch {
	case t == timeType:
		return spec.DateTimeProperty(), nil
	case t == uuidType:
		return spec.StrFmtProperty("uuid"), nil
	case t == rawMessageType:
		return &spec.Schema{}, nil
	case t.Kind() != reflect.Struct && t.Implements(textMarshalerType):
		return spec.StringProperty(), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return spec.BoolProperty(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return spec.Int32Property(), nil
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return spec.Int64Property(), nil
	case reflect.Float32:
		return spec.Float32Property(), nil
	case reflect.Float64:
		return spec.Float64Property(), nil
	case reflect.String:
		return spec.StringProperty(), nil
	case reflect.Interface:
		return &spec.Schema{}, nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return spec.StrFmtProperty("byte"), nil
		}
		items, err := g.schemaFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return spec.ArrayProperty(items), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String && !t.Key().Implements(textMarshalerType) {
			return nil, fmt.Errorf("map key type %s is not representable in JSON", t.Key())
		}
		values, err := g.schemaFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return spec.MapProperty(values), nil
	case reflect.Struct:
		if t.Name() == "" {
			return g.structSchema(t)
		}
		return g.definition(t)
	default:
		return nil, fmt.Errorf("type %s is not representable in JSON", t)
	}
}

// definition registers t under a unique name and returns a reference to it.
// The placeholder written before recursing terminates self-referencing types.
func (g *registry) definition(t reflect.Type) (*spec.Schema, error) {
	if name, ok := g.names[t]; ok {
		return spec.RefSchema("#/definitions/" + name), nil
	}

	name := definitionName(t)
	if other, taken := g.byName[name]; taken && other != t {
		name = definitionName(t) + "_" + sanitizeName(path.Base(t.PkgPath()))
	}
	g.names[t] = name
	g.byName[name] = t
	g.defs[name] = spec.Schema{}

	s, err := g.structSchema(t)
	if err != nil {
		return nil, err
	}
	g.defs[name] = *s
	return spec.RefSchema("#/definitions/" + name), nil
}

func (g *registry) structSchema(t reflect.Type) (*spec.Schema, error) {
	s := &spec.Schema{}
	s.Typed("object", "")
	if err := g.addFields(s, t); err != nil {
		return nil, err
	}
	return s, nil
}

func (g *registry) addFields(s *spec.Schema, t reflect.Type) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, omit := jsonName(f)
		if omit {
			continue
		}

		if f.Anonymous && name == "" {
			et := f.Type
			for et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				if err := g.addFields(s, et); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}

		fs, err := g.schemaFor(f.Type)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", t.Name(), f.Name, err)
		}
		if fs.Ref.String() == "" {
			if desc := f.Tag.Get("description"); desc != "" {
				fs.WithDescription(desc)
			}
			if ex, ok := f.Tag.Lookup("example"); ok {
				fs.WithExample(exampleValue(fs, ex))
			}
		}
		required := applyValidateTag(fs, f.Tag.Get("validate"))

		s.SetProperty(name, *fs)
		if required {
			s.Required = append(s.Required, name)
		}
	}
	return nil
}

// jsonName returns the field's JSON name ("" when untagged) and whether the
// field is skipped by encoding/json.
func jsonName(f reflect.StructField) (string, bool) {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" && tag == "-" {
		return "", true
	}
	return name, false
}

// applyValidateTag maps go-playground/validator rules onto schema
// constraints and reports whether the field is required.
func applyValidateTag(s *spec.Schema, tag string) bool {
	if tag == "" {
		return false
	}
	required := false
	for _, rule := range strings.Split(tag, ",") {
		key, param, _ := strings.Cut(rule, "=")
		switch key {
		case "required":
			required = true
		case "uuid", "uuid4":
			s.Format = "uuid"
		case "email":
			s.Format = "email"
		case "url", "uri":
			s.Format = "uri"
		case "oneof":
			for _, v := range strings.Fields(param) {
				s.Enum = append(s.Enum, exampleValue(s, v))
			}
		case "min", "gte":
			setBound(s, param, true)
		case "max", "lte":
			setBound(s, param, false)
		}
	}
	return required
}

func setBound(s *spec.Schema, param string, lower bool) {
	switch {
	case s.Type.Contains("string"):
		n, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			return
		}
		if lower {
			s.MinLength = &n
		} else {
			s.MaxLength = &n
		}
	case s.Type.Contains("array"):
		n, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			return
		}
		if lower {
			s.MinItems = &n
		} else {
			s.MaxItems = &n
		}
	case s.Type.Contains("integer"), s.Type.Contains("number"):
		f, err := strconv.ParseFloat(param, 64)
		if err != nil {
			return
		}
		if lower {
			s.Minimum = &f
		} else {
			s.Maximum = &f
		}
	}
}

// exampleValue converts a tag literal to the schema's primitive type.
func exampleValue(s *spec.Schema, raw string) any {
	switch {
	case s.Type.Contains("integer"):
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	case s.Type.Contains("number"):
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case s.Type.Contains("boolean"):
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return raw
}

func definitionName(t reflect.Type) string {
	return sanitizeName(t.Name())
}

// sanitizeName makes generic instantiations like Page[pkg.Item] usable as
// definition keys.
func sanitizeName(s string) string {
	s = nonIdentifier.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

func (g *registry) ensureValidationError() {
	if _, ok := g.defs[validationErrorDefinition]; ok {
		return
	}
	s := spec.Schema{}
	s.Typed("object", "")
	s.SetProperty("error", *spec.StringProperty())
	s.SetProperty("fields", *spec.MapProperty(spec.StringProperty()))
	s.Required = []string{"error"}
	g.defs[validationErrorDefinition] = s
}
