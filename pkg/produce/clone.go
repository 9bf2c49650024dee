package produce

import (
	"reflect"
	"time"
	"unsafe"
)

// ptrKey identifies a reference value. The type is part of the key so a
// pointer to a struct and a pointer to its first field stay distinct.
type ptrKey struct {
	typ  reflect.Type
	addr uintptr
}

func keyOf(v reflect.Value) ptrKey {
	return ptrKey{typ: v.Type(), addr: v.Pointer()}
}

// Clone returns a deep copy of v.
// Pointers shared inside v stay shared inside the copy, and cycles are
// preserved. Unexported struct fields are copied like exported ones.
// Channels and funcs are copied shallowly.
func Clone[T any](v T) T {
	c := &cloner{seen: make(map[ptrKey]reflect.Value)}
	out := c.clone(reflect.ValueOf(&v).Elem())

	var result T
	reflect.ValueOf(&result).Elem().Set(out)
	return result
}

// timeType values are immutable and their *time.Location must keep its
// identity, so they are never copied field by field.
var timeType = reflect.TypeFor[time.Time]()

type cloner struct {
	seen map[ptrKey]reflect.Value
}

func (c *cloner) clone(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		key := keyOf(v)
		if done, ok := c.seen[key]; ok {
			return done
		}
		out := reflect.New(v.Type().Elem())
		c.seen[key] = out
		out.Elem().Set(c.clone(v.Elem()))
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		key := keyOf(v)
		if done, ok := c.seen[key]; ok {
			return done
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		c.seen[key] = out
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), c.clone(iter.Value()))
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Cap())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(c.clone(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(c.clone(v.Index(i)))
		}
		return out

	case reflect.Struct:
		if v.Type() == timeType {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < out.NumField(); i++ {
			f := exposed(out.Field(i))
			f.Set(c.clone(f))
		}
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(c.clone(v.Elem()))
		return out

	default:
		return v
	}
}

// exposed returns a settable view of f, a field of an addressable struct.
// Unexported fields are reached through their address.
func exposed(f reflect.Value) reflect.Value {
	if f.CanSet() {
		return f
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}

// addressable returns v, or an addressable copy when v is not.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}
