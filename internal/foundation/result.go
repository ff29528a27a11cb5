// Package foundation holds small generic helpers shared by the generator.
package foundation

// Result is the outcome of one step that either produced a value T or
// stopped with E. It lets a batch collect per-item outcomes and inspect them
// once the batch is done.
type Result[T any, E error] struct {
	value T
	err   E
	ok    bool
}

// Ok wraps a produced value.
func Ok[T any, E error](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

// Err wraps the reason a step produced nothing.
func Err[T any, E error](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

func (r Result[T, E]) IsOk() bool {
	return r.ok
}

// Get converts the Result to the usual (value, error) pair.
func (r Result[T, E]) Get() (T, E) {
	return r.value, r.err
}

// Match calls exactly one of the two callbacks.
func (r Result[T, E]) Match(onOk func(T), onErr func(E)) {
	if r.ok {
		onOk(r.value)
		return
	}
	onErr(r.err)
}

// Partition splits results into values and errors, keeping the order of each.
func Partition[T any, E error](results []Result[T, E]) ([]T, []E) {
	var values []T
	var errs []E
	for _, r := range results {
		r.Match(
			func(v T) { values = append(values, v) },
			func(e E) { errs = append(errs, e) },
		)
	}
	return values, errs
}
