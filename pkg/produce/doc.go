// Package produce computes structurally shared updates of Go values.
//
// A mutator receives a draft of the base value and edits it in place.
// The result reflects those edits, while every part of the value the
// mutator did not change is shared by reference with the base:
//
//	type State struct {
//	    Count int
//	    Tags  []string
//	    Meta  map[string]string
//	}
//
//	next, err := produce.Apply(base, func(d *State) error {
//	    d.Count++
//	    return nil
//	})
//	// next.Count == base.Count+1
//	// next.Tags and next.Meta share storage with base.Tags and base.Meta
//
// The base value is never modified. Anyone still holding it observes the
// old state.
//
// # Drafts
//
// The draft is a deep copy of the base: pointers, maps, slices, arrays,
// interfaces and struct fields, exported or not, are copied recursively.
// Channels and funcs are copied shallowly. After the
// mutator returns, the draft is reconciled against the base bottom-up and
// each subtree with no observable change is swapped for the base subtree,
// so only the path from the root to each changed leaf is newly allocated.
//
// # Replacement
//
// Produce is the replacement form: the mutator returns the next value and
// that value is used as-is.
//
// # Failures
//
// A mutator that returns an error or panics yields a *MutationError
// wrapping the cause. The base is left untouched.
package produce
