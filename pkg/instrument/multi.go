package instrument

import "github.com/quotely/signal/pkg/reactive"

type multi []reactive.Observer

// Multi returns an observer that forwards every hook to each of obs in
// order. Nil observers are dropped.
func Multi(obs ...reactive.Observer) reactive.Observer {
	out := make(multi, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multi) Written(ev reactive.WriteEvent) {
	for _, o := range m {
		o.Written(ev)
	}
}

func (m multi) MutationFailed(signal string, path reactive.WritePath, err error) {
	for _, o := range m {
		o.MutationFailed(signal, path, err)
	}
}

func (m multi) Subscribed(signal string, active int) {
	for _, o := range m {
		o.Subscribed(signal, active)
	}
}

func (m multi) Unsubscribed(signal string, active int) {
	for _, o := range m {
		o.Unsubscribed(signal, active)
	}
}
