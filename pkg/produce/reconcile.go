package produce

import "reflect"

// reconciler restores structural sharing between a base and its edited
// draft. reconcile returns the value to keep and whether it differs from
// base; when it does not, the base value itself is returned.
type reconciler struct {
	done   map[ptrKey]reconciled
	active map[ptrKey]bool
}

type reconciled struct {
	v       reflect.Value
	changed bool
}

func newReconciler() *reconciler {
	return &reconciler{
		done:   make(map[ptrKey]reconciled),
		active: make(map[ptrKey]bool),
	}
}

func (r *reconciler) reconcile(base, draft reflect.Value) (reflect.Value, bool) {
	switch draft.Kind() {
	case reflect.Pointer:
		return r.reconcileRef(base, draft, func() (reflect.Value, bool) {
			elem, changed := r.reconcile(base.Elem(), draft.Elem())
			if !changed {
				return base, false
			}
			out := reflect.New(draft.Type().Elem())
			out.Elem().Set(elem)
			return out, true
		})

	case reflect.Map:
		return r.reconcileRef(base, draft, func() (reflect.Value, bool) {
			return r.reconcileMap(base, draft)
		})

	case reflect.Slice:
		if base.IsNil() && draft.IsNil() {
			return base, false
		}
		if base.IsNil() || draft.IsNil() {
			return draft, true
		}
		if sameSlice(base, draft) {
			return base, false
		}
		return r.reconcileSlice(base, draft)

	case reflect.Array:
		out := reflect.New(draft.Type()).Elem()
		changed := false
		for i := 0; i < draft.Len(); i++ {
			v, c := r.reconcile(base.Index(i), draft.Index(i))
			changed = changed || c
			out.Index(i).Set(v)
		}
		if !changed {
			return base, false
		}
		return out, true

	case reflect.Struct:
		if draft.Type() == timeType {
			if identical(base, draft) {
				return base, false
			}
			return draft, true
		}
		return r.reconcileStruct(base, draft)

	case reflect.Interface:
		if base.IsNil() && draft.IsNil() {
			return base, false
		}
		if base.IsNil() || draft.IsNil() || base.Elem().Type() != draft.Elem().Type() {
			return draft, true
		}
		inner, changed := r.reconcile(base.Elem(), draft.Elem())
		if !changed {
			return base, false
		}
		out := reflect.New(draft.Type()).Elem()
		out.Set(inner)
		return out, true

	default:
		if identical(base, draft) {
			return base, false
		}
		return draft, true
	}
}

// reconcileRef handles the bookkeeping shared by pointers and maps: nil
// checks, identity, memoization for values reachable twice and cycles.
// A back-edge into a value still being reconciled counts as changed.
func (r *reconciler) reconcileRef(base, draft reflect.Value, walk func() (reflect.Value, bool)) (reflect.Value, bool) {
	if base.IsNil() && draft.IsNil() {
		return base, false
	}
	if base.IsNil() || draft.IsNil() {
		return draft, true
	}
	if base.Pointer() == draft.Pointer() {
		return base, false
	}

	key := keyOf(draft)
	if res, ok := r.done[key]; ok {
		return res.v, res.changed
	}
	if r.active[key] {
		return draft, true
	}

	r.active[key] = true
	v, changed := walk()
	delete(r.active, key)

	r.done[key] = reconciled{v: v, changed: changed}
	return v, changed
}

func (r *reconciler) reconcileMap(base, draft reflect.Value) (reflect.Value, bool) {
	out := reflect.MakeMapWithSize(draft.Type(), draft.Len())
	changed := base.Len() != draft.Len()

	iter := draft.MapRange()
	for iter.Next() {
		k, dv := iter.Key(), iter.Value()
		bv := base.MapIndex(k)
		if !bv.IsValid() {
			changed = true
			out.SetMapIndex(k, dv)
			continue
		}
		v, c := r.reconcile(bv, dv)
		changed = changed || c
		out.SetMapIndex(k, v)
	}

	if !changed {
		return base, false
	}
	return out, true
}

func (r *reconciler) reconcileSlice(base, draft reflect.Value) (reflect.Value, bool) {
	out := reflect.MakeSlice(draft.Type(), draft.Len(), draft.Cap())
	changed := base.Len() != draft.Len()

	for i := 0; i < draft.Len(); i++ {
		if i >= base.Len() {
			out.Index(i).Set(draft.Index(i))
			continue
		}
		v, c := r.reconcile(base.Index(i), draft.Index(i))
		changed = changed || c
		out.Index(i).Set(v)
	}

	if !changed {
		return base, false
	}
	return out, true
}

func (r *reconciler) reconcileStruct(base, draft reflect.Value) (reflect.Value, bool) {
	base, draft = addressable(base), addressable(draft)
	out := reflect.New(draft.Type()).Elem()
	changed := false

	for i := 0; i < draft.NumField(); i++ {
		v, c := r.reconcile(exposed(base.Field(i)), exposed(draft.Field(i)))
		changed = changed || c
		exposed(out.Field(i)).Set(v)
	}

	if !changed {
		return base, false
	}
	return out, true
}

// sameSlice reports whether two slices view the same backing array with
// the same length and capacity.
func sameSlice(a, b reflect.Value) bool {
	return a.Pointer() == b.Pointer() && a.Len() == b.Len() && a.Cap() == b.Cap()
}
