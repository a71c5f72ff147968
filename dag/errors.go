package dag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrChannelClosed is returned when sending on, cloning or closing a
	// send handle that was already closed, or when the receive side has
	// been torn down.
	ErrChannelClosed = errors.New("dag: channel closed")
	// ErrNodeReused is returned when Run is called on a node that already ran.
	ErrNodeReused = errors.New("dag: node already ran")
	// ErrNoRequiredInputs is returned by NewNode when the required set is empty.
	ErrNoRequiredInputs = errors.New("dag: node has no required inputs")
	// ErrNoCompute is returned by NewNode when no compute function is set.
	ErrNoCompute = errors.New("dag: node has no compute function")
)

// IncompleteInputError reports that a node's input stream ended before
// every required input arrived.
type IncompleteInputError struct {
	Node    string
	Missing []string
}

func (e *IncompleteInputError) Error() string {
	return fmt.Sprintf("dag: node %q input closed with %d missing: %s",
		e.Node, len(e.Missing), strings.Join(e.Missing, ", "))
}

// UnexpectedInputError reports a key outside the node's required set, or a
// required key delivered twice.
type UnexpectedInputError struct {
	Node   string
	Key    string
	Reason string
}

func (e *UnexpectedInputError) Error() string {
	return fmt.Sprintf("dag: node %q received %s key %q", e.Node, e.Reason, e.Key)
}

// DuplicateInputError is returned by NewNode when a required name is listed twice.
type DuplicateInputError struct {
	Key string
}

func (e *DuplicateInputError) Error() string {
	return fmt.Sprintf("dag: required input %q listed twice", e.Key)
}
