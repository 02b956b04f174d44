package binding

import (
	"reflect"
	"strings"
)

// trimValues trims each value and drops the blank ones, so a parameter sent
// as "?scope=%20" binds exactly like an absent one.
func trimValues(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// normalizeStrings trims every string reachable from v through exported
// struct fields, pointers, slices, arrays and map values. A *string left
// blank becomes nil. It runs before validation so `required` rejects
// whitespace-only input.
func normalizeStrings(v reflect.Value) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(strings.TrimSpace(v.String()))
		}
	case reflect.Pointer:
		if v.IsNil() {
			return
		}
		elem := v.Elem()
		if elem.Kind() == reflect.String && v.CanSet() && strings.TrimSpace(elem.String()) == "" {
			v.Set(reflect.Zero(v.Type()))
			return
		}
		normalizeStrings(elem)
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			if t.Field(i).IsExported() {
				normalizeStrings(v.Field(i))
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			normalizeStrings(v.Index(i))
		}
	case reflect.Map:
		if v.Type().Elem().Kind() != reflect.String {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			v.SetMapIndex(iter.Key(), reflect.ValueOf(strings.TrimSpace(iter.Value().String())).Convert(v.Type().Elem()))
		}
	default:
	}
}
