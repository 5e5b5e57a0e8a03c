package ext

// Stack is a LIFO, the zero value is an empty Stack.
type Stack[T any] []T

func (s *Stack[T]) Push(v T) {
	*s = append(*s, v)
}

// Pop removes the most recent value, the Stack must not be empty.
func (s *Stack[T]) Pop() T {
	top := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return top
}

func (s Stack[T]) Top() T {
	return s[len(s)-1]
}

func (s Stack[T]) Len() int {
	return len(s)
}
