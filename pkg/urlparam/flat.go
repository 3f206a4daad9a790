package urlparam

import (
	"fmt"
	"reflect"
	"strings"
)

// Encode flattens a struct into parameters, one per exported string or
// []string field, in field order. The key is the `url` tag or the
// lowercased field name; a tag of "-" skips the field. Empty values are
// left out, and fields of other types are ignored.
//
// Non-struct values produce no parameters.
func Encode(v any) Values {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var values Values
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		key := fieldKey(field)
		if key == "-" {
			continue
		}

		fv := rv.Field(i)
		switch {
		case fv.Kind() == reflect.String && fv.Len() > 0:
			values.Add(key, fv.String())
		case isStringSlice(fv.Type()) && fv.Len() > 0:
			vals := make([]string, fv.Len())
			for j := range vals {
				vals[j] = fv.Index(j).String()
			}
			values.Add(key, vals...)
		}
	}
	return values
}

// Decode fills the struct pointed to by dst from values, using the same
// keys as Encode. Fields with no parameter are left untouched.
func Decode(values Values, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("urlparam: Decode needs a non-nil pointer, got %T", dst)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("urlparam: Decode needs a struct pointer, got %T", dst)
	}

	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := rv.Field(i)
		if !fv.CanSet() {
			continue
		}
		key := fieldKey(field)
		if key == "-" || !values.Has(key) {
			continue
		}

		raw := values.All(key)
		switch {
		case fv.Kind() == reflect.String:
			var first string
			if len(raw) > 0 {
				first = raw[0]
			}
			fv.SetString(first)
		case isStringSlice(fv.Type()):
			slice := reflect.MakeSlice(fv.Type(), len(raw), len(raw))
			for j, v := range raw {
				slice.Index(j).SetString(v)
			}
			fv.Set(slice)
		default:
			return fmt.Errorf("urlparam: %s: unsupported field type %s", key, fv.Type())
		}
	}
	return nil
}

func fieldKey(field reflect.StructField) string {
	key, _, _ := strings.Cut(field.Tag.Get("url"), ",")
	if key == "" {
		key = strings.ToLower(field.Name)
	}
	return key
}

func isStringSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String
}
