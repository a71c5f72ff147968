package dag

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
)

// Values maps input or output names to payloads.
type Values[V any] map[string]V

// ComputeFunc is the operation a node performs once all of its required
// inputs have arrived.
type ComputeFunc[V any] func(ctx context.Context, in Values[V]) (Values[V], error)

// NodeConfig configures a node.
type NodeConfig[V any] struct {
	// Name identifies the node in errors and logs.
	Name string
	// Required is the exact set of input names the node waits for.
	Required []string
	// Compute runs once with the collected inputs.
	Compute ComputeFunc[V]
	// Outputs receive every output pair; each handle is closed by the node.
	Outputs []*Sender[V]
	// Buffer is the input channel capacity. Defaults to len(Required) so
	// producers never block on a node that has not started yet.
	Buffer int
}

// Node is a single-shot unit: it collects its required inputs from its own
// input channel, computes once, and sends the result to its outputs.
type Node[V any] struct {
	name     string
	required map[string]struct{}
	compute  ComputeFunc[V]
	outputs  []*Sender[V]

	input *Sender[V]
	recv  *Receiver[V]
	used  atomic.Bool
}

// NewNode validates cfg and creates the node together with its input channel.
func NewNode[V any](cfg NodeConfig[V]) (*Node[V], error) {
	if cfg.Compute == nil {
		return nil, ErrNoCompute
	}
	if len(cfg.Required) == 0 {
		return nil, ErrNoRequiredInputs
	}
	required := make(map[string]struct{}, len(cfg.Required))
	for _, key := range cfg.Required {
		if _, dup := required[key]; dup {
			return nil, &DuplicateInputError{Key: key}
		}
		required[key] = struct{}{}
	}

	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = len(cfg.Required)
	}
	input, recv := NewChannel[V](buffer)

	return &Node[V]{
		name:     cfg.Name,
		required: required,
		compute:  cfg.Compute,
		outputs:  slices.Clone(cfg.Outputs),
		input:    input,
		recv:     recv,
	}, nil
}

// Name returns the node name.
func (n *Node[V]) Name() string { return n.name }

// Required returns the required input names, sorted.
func (n *Node[V]) Required() []string {
	keys := make([]string, 0, len(n.required))
	for k := range n.required {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Input returns the node's original input handle. Callers that hand the
// input to several producers should use FanIn instead.
func (n *Node[V]) Input() *Sender[V] { return n.input }

// FanIn clones the input handle once per producer and closes the original,
// so the input stream ends exactly when all k returned handles are closed.
func (n *Node[V]) FanIn(k int) ([]*Sender[V], error) {
	handles := make([]*Sender[V], 0, k)
	for range k {
		h, err := n.input.Clone()
		if err != nil {
			for _, opened := range handles {
				_ = opened.Close()
			}
			return nil, err
		}
		handles = append(handles, h)
	}
	if err := n.input.Close(); err != nil {
		for _, opened := range handles {
			_ = opened.Close()
		}
		return nil, err
	}
	return handles, nil
}

// Run collects inputs, invokes compute once, and distributes its output.
// It can be called once; later calls return ErrNodeReused. Output handles
// are closed on every exit path and the input side is torn down on return.
func (n *Node[V]) Run(ctx context.Context) error {
	if !n.used.CompareAndSwap(false, true) {
		return ErrNodeReused
	}
	defer n.recv.Close()

	pending := slices.Clone(n.outputs)
	defer func() {
		for _, out := range pending {
			_ = out.Close()
		}
	}()

	in, err := n.collect(ctx)
	if err != nil {
		return err
	}

	out, err := n.compute(ctx, in)
	if err != nil {
		return fmt.Errorf("dag: node %q: %w", n.name, err)
	}

	keys := make([]string, 0, len(out))
	for k := range out {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for len(pending) > 0 {
		dst := pending[0]
		pending = pending[1:]
		for _, k := range keys {
			if err := dst.Send(ctx, k, out[k]); err != nil {
				_ = dst.Close()
				return fmt.Errorf("dag: node %q: send %q: %w", n.name, k, err)
			}
		}
		if err := dst.Close(); err != nil {
			return fmt.Errorf("dag: node %q: close output: %w", n.name, err)
		}
	}
	return nil
}

// collect receives until the observed keys equal the required set.
func (n *Node[V]) collect(ctx context.Context) (Values[V], error) {
	in := make(Values[V], len(n.required))
	for len(in) < len(n.required) {
		msg, ok, err := n.recv.Receive(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &IncompleteInputError{Node: n.name, Missing: n.missing(in)}
		}
		if _, want := n.required[msg.Key]; !want {
			return nil, &UnexpectedInputError{Node: n.name, Key: msg.Key, Reason: "unexpected"}
		}
		if _, seen := in[msg.Key]; seen {
			return nil, &UnexpectedInputError{Node: n.name, Key: msg.Key, Reason: "duplicate"}
		}
		in[msg.Key] = msg.Value
	}
	return in, nil
}

func (n *Node[V]) missing(in Values[V]) []string {
	var keys []string
	for k := range n.required {
		if _, ok := in[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
