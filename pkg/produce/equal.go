package produce

import "reflect"

// Identical reports whether a and b are the same value in the sense of
// reference identity: pointers, maps, channels and funcs must share an
// address, slices must view the same backing array with the same length
// and capacity, and scalars must be equal. Structs, arrays and interfaces
// are identical when all their parts are.
//
// Two separately allocated but equal maps are not identical.
func Identical[T any](a, b T) bool {
	return identical(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

func identical(a, b reflect.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	case reflect.String:
		return a.String() == b.String()
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		if a.IsNil() != b.IsNil() {
			return false
		}
		return sameSlice(a, b)
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		if a.Elem().Type() != b.Elem().Type() {
			return false
		}
		return identical(a.Elem(), b.Elem())
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !identical(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !identical(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Equal reports whether a and b are equal by value.
// Uses == for basic types and reflect.DeepEqual for everything else.
func Equal[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return same(av, any(b))
	case int8:
		return same(av, any(b))
	case int16:
		return same(av, any(b))
	case int32:
		return same(av, any(b))
	case int64:
		return same(av, any(b))
	case uint:
		return same(av, any(b))
	case uint8:
		return same(av, any(b))
	case uint16:
		return same(av, any(b))
	case uint32:
		return same(av, any(b))
	case uint64:
		return same(av, any(b))
	case float32:
		return same(av, any(b))
	case float64:
		return same(av, any(b))
	case string:
		return same(av, any(b))
	case bool:
		return same(av, any(b))
	default:
		return reflect.DeepEqual(a, b)
	}
}

func same[V comparable](a V, b any) bool {
	bv, ok := b.(V)
	return ok && a == bv
}
