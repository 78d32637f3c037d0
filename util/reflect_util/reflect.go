// Package reflect_util maps string keys onto struct fields through their tags.
package reflect_util

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Field is a settable struct field addressed by its tag key.
type Field struct {
	Key   string
	Value reflect.Value
}

// TaggedFields returns the fields of the struct ptr points to, keyed by the
// first element of tag. Untagged and "-" fields are skipped.
func TaggedFields(ptr any, tag string) ([]Field, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected pointer to struct, got %T", ptr)
	}
	v = v.Elem()
	t := v.Type()

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
		if key == "" || key == "-" {
			continue
		}
		fields = append(fields, Field{Key: key, Value: v.Field(i)})
	}
	return fields, nil
}

// SetString parses s into the field according to its kind.
func (f Field) SetString(s string) error {
	switch f.Value.Kind() {
	case reflect.String:
		f.Value.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, f.Value.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Key, err)
		}
		f.Value.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Key, err)
		}
		f.Value.SetBool(b)
	default:
		return fmt.Errorf("field %s: unsupported kind %s", f.Key, f.Value.Kind())
	}
	return nil
}

// String formats the field value the way SetString reads it back.
func (f Field) String() string {
	return fmt.Sprint(f.Value.Interface())
}
