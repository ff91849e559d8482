package bypass

import (
	"reflect"
)

func bindingsEqual(a, b Binding) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func containsBinding(list []Binding, b Binding) bool {
	for _, have := range list {
		if bindingsEqual(have, b) {
			return true
		}
	}
	return false
}

// deepCopyValue duplicates maps, slices, arrays and pointers recursively so
// that a deep registry copy shares no mutable state with the original.
// Channels, functions and other reference kinds are passed through as-is.
func deepCopyValue(v any) any {
	if v == nil {
		return nil
	}
	return deepCopyVal(reflect.ValueOf(v)).Interface()
}

func deepCopyVal(val reflect.Value) reflect.Value {
	switch val.Kind() {
	case reflect.Interface:
		if val.IsNil() {
			return val
		}
		return deepCopyVal(val.Elem())
	case reflect.Ptr:
		if val.IsNil() {
			return val
		}
		n := reflect.New(val.Type().Elem())
		n.Elem().Set(deepCopyVal(val.Elem()))
		return n
	case reflect.Slice:
		if val.IsNil() {
			return val
		}
		n := reflect.MakeSlice(val.Type(), val.Len(), val.Len())
		for i := 0; i < val.Len(); i++ {
			n.Index(i).Set(deepCopyVal(val.Index(i)))
		}
		return n
	case reflect.Array:
		n := reflect.New(val.Type()).Elem()
		for i := 0; i < val.Len(); i++ {
			n.Index(i).Set(deepCopyVal(val.Index(i)))
		}
		return n
	case reflect.Map:
		if val.IsNil() {
			return val
		}
		n := reflect.MakeMapWithSize(val.Type(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			n.SetMapIndex(deepCopyVal(iter.Key()), deepCopyVal(iter.Value()))
		}
		return n
	case reflect.Struct:
		n := reflect.New(val.Type()).Elem()
		for i := 0; i < val.NumField(); i++ {
			if n.Field(i).CanSet() {
				n.Field(i).Set(deepCopyVal(val.Field(i)))
			}
		}
		return n
	default:
		return val
	}
}
