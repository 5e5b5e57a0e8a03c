package lexer

// stack collects the characters of the token being scanned.
// Its buffer is kept across tokens so scanning rarely allocates.
type stack struct {
	buf []byte
}

func newStack() *stack {
	return &stack{buf: make([]byte, 0, 32)}
}

func (s *stack) push(b byte) {
	s.buf = append(s.buf, b)
}

func (s *stack) clear() {
	s.buf = s.buf[:0]
}

func (s *stack) len() int {
	return len(s.buf)
}

func (s *stack) String() string {
	return string(s.buf)
}
