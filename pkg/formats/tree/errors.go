package tree

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedNode = errors.New("tree: unexpected node")
	ErrUnknownKey     = errors.New("tree: unknown key")
	ErrNothingEncoded = errors.New("tree: codec wrote no value")
	ErrTooManyValues  = errors.New("tree: codec wrote more than one value")
)

func unexpected(want Kind, got *Node) error {
	if got == nil {
		return fmt.Errorf("%w: want %s, got nothing", ErrUnexpectedNode, want)
	}
	return fmt.Errorf("%w: want %s, got %s", ErrUnexpectedNode, want, got.Kind)
}
