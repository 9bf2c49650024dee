package reactive

import (
	"encoding/json"
	"fmt"
)

// Accessor is the narrow surface through which a signal is read, written
// and observed. Components that should not reach anything else take an
// Accessor instead of a *Signal.
type Accessor[T any] interface {
	GetValue() T
	SetValue(v T)
	Subscribe(fn Subscriber[T]) SubscriptionID
	Unsubscribe(id SubscriptionID) bool
	ServerSnapshot() T
	Name() string
}

var _ Accessor[int] = (*Signal[int])(nil)

// Property keys understood by Property and AssignProperty.
const (
	KeyValue          = "value"
	KeyGetValue       = "getValue"
	KeySubscribe      = "subscribe"
	KeyUnsubscribe    = "unsubscribe"
	KeyServerSnapshot = "getServerSnapshot"
	KeySignalName     = "signalName"
)

// Property looks up a member of s by name. KeyValue yields the current
// value; the other keys yield the bound method (or, for KeySignalName,
// the name). Any other key is inert and yields (nil, false).
func Property[T any](s *Signal[T], key string) (any, bool) {
	switch key {
	case KeyValue:
		return s.GetValue(), true
	case KeyGetValue:
		return s.GetValue, true
	case KeySubscribe:
		return s.Subscribe, true
	case KeyUnsubscribe:
		return s.Unsubscribe, true
	case KeyServerSnapshot:
		return s.ServerSnapshot, true
	case KeySignalName:
		return s.name, true
	default:
		return nil, false
	}
}

// AssignProperty writes v to the member named key.
//
// Every write attempt fires the OnUpdate hook. Only KeyValue is writable:
// it goes through SetValue, so identical values are skipped. Writes to any
// other key are accepted and ignored. A nil v stands for the zero T.
// ErrTypeMismatch is returned when v is not a T.
func AssignProperty[T any](s *Signal[T], key string, v any) error {
	var tv T
	if v != nil {
		var ok bool
		if tv, ok = v.(T); !ok {
			return fmt.Errorf("%w: got %T", ErrTypeMismatch, v)
		}
	}
	if key != KeyValue {
		s.fireOnUpdate(key, tv)
		return nil
	}
	s.SetValue(tv)
	return nil
}

// AssignJSON decodes raw into a T and assigns it to key, as AssignProperty.
func AssignJSON[T any](s *Signal[T], key string, raw []byte) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	return AssignProperty(s, key, any(v))
}
