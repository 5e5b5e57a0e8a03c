package slices

// Map applies f to every element of s.
func Map[I, O any](s []I, f func(I) O) []O {
	mapped := make([]O, len(s))
	for i := range s {
		mapped[i] = f(s[i])
	}
	return mapped
}
