package values

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Cty allows types to customize the way they are
// converted to cty.Value
type Cty interface {
	CTY() cty.Value
}

var ctyType = reflect.TypeOf((*Cty)(nil)).Elem()

// Object converts the exported fields of a struct into a cty object with
// snake case attribute names. Fields implementing Cty convert themselves,
// every other field goes through gocty.
func Object(instance interface{}) (cty.Value, error) {
	attributes := map[string]cty.Value{}
	val := reflect.Indirect(reflect.ValueOf(instance))
	if val.Kind() != reflect.Struct {
		return cty.NilVal, fmt.Errorf("expected a struct but got %s", val.Kind())
	}

	for index := 0; index < val.NumField(); index++ {
		field := val.Type().Field(index)
		// Ignore unexported types.
		if !field.IsExported() {
			continue
		}

		name := ToSnakeCase(field.Name)
		if field.Type.Implements(ctyType) {
			attributes[name] = val.Field(index).Interface().(Cty).CTY()
			continue
		}

		item := val.Field(index).Interface()
		impliedType, err := gocty.ImpliedType(item)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s: %w", field.Name, err)
		}

		value, err := gocty.ToCtyValue(item, impliedType)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s: %w", field.Name, err)
		}
		attributes[name] = value
	}

	return cty.ObjectVal(attributes), nil
}

// Tuple converts every item on its own; items do not need to share a type
func Tuple[T Cty](items []T) cty.Value {
	if len(items) == 0 {
		return cty.EmptyTupleVal
	}

	result := make([]cty.Value, len(items))
	for index, item := range items {
		result[index] = item.CTY()
	}

	return cty.TupleVal(result)
}

// Strings converts a string slice to a cty list, empty lists included
func Strings(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}

	result := make([]cty.Value, len(items))
	for index, item := range items {
		result[index] = cty.StringVal(item)
	}

	return cty.ListVal(result)
}

// ToSnakeCase turns a Go field name like "HasDependents" into
// "has_dependents"
func ToSnakeCase(name string) string {
	var out strings.Builder
	runes := []rune(name)
	for index, r := range runes {
		if unicode.IsUpper(r) {
			boundary := index > 0 && (unicode.IsLower(runes[index-1]) ||
				(index+1 < len(runes) && unicode.IsLower(runes[index+1])))
			if boundary {
				out.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		out.WriteRune(r)
	}

	return out.String()
}
