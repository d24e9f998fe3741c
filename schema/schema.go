// Package schema lets a component declare, up front, the shape of
// its settings map, turning "missing key" or "wrong type" from a
// first-use fatal-log event into a startup error the device can
// refuse to run on.
//
// This is grounded on core.ParamSpec from the sheens tree this module
// is built from, which declared the same fields (PrimitiveType,
// Default, Optional, IsArray, cardinality) but left Valid and
// ValueCompliesWith as stubs ("currently just returns nil... probably
// shouldn't return an error, but we'll just go with that for now").
// Here they do real work.
package schema

import (
	"fmt"
	"reflect"
	"time"
)

// ParamSpec describes one settings-map entry.
type ParamSpec struct {
	// Doc documents the setting for developers.
	Doc string

	// PrimitiveType is one of "string", "int", "float64", "bool",
	// or "duration".
	PrimitiveType string

	// Default is used when the setting is Optional and absent.
	Default interface{}

	// Optional means the key may be absent from the settings map.
	Optional bool

	// IsArray means the value must be a []interface{} (or
	// directly a slice of the declared primitive type) whose
	// elements each satisfy PrimitiveType.
	IsArray bool

	// MinCardinality and MaxCardinality bound the slice length
	// when IsArray is set. Zero MaxCardinality means unbounded.
	MinCardinality int
	MaxCardinality int
}

// Spec is a settings-map schema: the set of keys a component expects,
// and how to validate each one.
type Spec map[string]ParamSpec

// MissingSettingError occurs when a required key is absent.
type MissingSettingError struct {
	Key string
}

func (e *MissingSettingError) Error() string {
	return fmt.Sprintf("missing required setting %q", e.Key)
}

// TypeMismatchError occurs when a settings value doesn't match its
// declared PrimitiveType.
type TypeMismatchError struct {
	Key      string
	Expected string
	Got      interface{}
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("setting %q: expected %s, got %T", e.Key, e.Expected, e.Got)
}

// CardinalityError occurs when an array setting's length is outside
// [MinCardinality, MaxCardinality].
type CardinalityError struct {
	Key string
	Len int
	Min int
	Max int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("setting %q: array length %d outside [%d,%d]", e.Key, e.Len, e.Min, e.Max)
}

// Validate checks settings against the schema, returning the first
// violation found, and fills in defaults for absent optional keys.
//
// Validate mutates settings in place to install defaults, matching
// the teacher's ParamSpec.Default field, which is otherwise dead
// data with no consumer in the source this is grounded on.
func (s Spec) Validate(settings map[string]interface{}) error {
	for key, p := range s {
		v, have := settings[key]
		if !have {
			if p.Optional {
				if p.Default != nil {
					settings[key] = p.Default
				}
				continue
			}
			return &MissingSettingError{Key: key}
		}
		if err := p.check(key, v); err != nil {
			return err
		}
	}
	return nil
}

func (p ParamSpec) check(key string, v interface{}) error {
	if p.IsArray {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice {
			return &TypeMismatchError{Key: key, Expected: "array", Got: v}
		}
		n := rv.Len()
		if n < p.MinCardinality || (p.MaxCardinality > 0 && n > p.MaxCardinality) {
			return &CardinalityError{Key: key, Len: n, Min: p.MinCardinality, Max: p.MaxCardinality}
		}
		for i := 0; i < n; i++ {
			if err := checkPrimitive(key, p.PrimitiveType, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}
	return checkPrimitive(key, p.PrimitiveType, v)
}

func checkPrimitive(key, primitiveType string, v interface{}) error {
	switch primitiveType {
	case "string":
		if _, is := v.(string); !is {
			return &TypeMismatchError{Key: key, Expected: "string", Got: v}
		}
	case "int":
		if _, is := v.(int); !is {
			return &TypeMismatchError{Key: key, Expected: "int", Got: v}
		}
	case "float64":
		if _, is := v.(float64); !is {
			return &TypeMismatchError{Key: key, Expected: "float64", Got: v}
		}
	case "bool":
		if _, is := v.(bool); !is {
			return &TypeMismatchError{Key: key, Expected: "bool", Got: v}
		}
	case "duration":
		if _, is := v.(time.Duration); !is {
			return &TypeMismatchError{Key: key, Expected: "time.Duration", Got: v}
		}
	default:
		return fmt.Errorf("setting %q: unknown primitive type %q", key, primitiveType)
	}
	return nil
}
