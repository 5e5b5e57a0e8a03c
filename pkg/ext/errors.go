package ext

import "runtime"

// CatchPanic runs f and returns the error it panicked with.
// Panics which do not carry an error and runtime errors,
// such as an index out of range, are propagated.
func CatchPanic(f func()) (err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		e, ok := p.(error)
		if _, internal := e.(runtime.Error); !ok || internal {
			panic(p)
		}
		err = e
	}()

	f()
	return nil
}
