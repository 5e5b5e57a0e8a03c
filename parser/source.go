package parser

import "github.com/hfmohammed/compiler/token"

// TokenSource provides the tokens of a File in source order.
// After the last token it keeps returning [token.EOF],
// malformed input is reported as [token.Illegal].
type TokenSource interface {
	Next() token.Token
}

// TokenSourceFunc adapts a function to a TokenSource.
type TokenSourceFunc func() token.Token

func (f TokenSourceFunc) Next() token.Token {
	return f()
}

// withoutComments drops all [token.Comment] tokens of src.
func withoutComments(src TokenSource) TokenSource {
	return TokenSourceFunc(func() token.Token {
		t := src.Next()
		for t.Type == token.Comment {
			t = src.Next()
		}
		return t
	})
}
