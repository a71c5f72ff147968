// Package dag provides the fan-in primitives longreader builds its pipeline
// from: reference-counted channels carrying keyed values, and single-shot
// nodes that collect a fixed set of named inputs, compute once, and fan the
// result out to downstream channels.
//
// A typical aggregation point:
//
//	done, results := dag.NewChannel[[]float32](1)
//	node, _ := dag.NewNode(dag.NodeConfig[[]float32]{
//	    Name:     "combine",
//	    Required: dag.IndexedKeys("chunk", n),
//	    Compute:  combine,
//	    Outputs:  []*dag.Sender[[]float32]{done},
//	})
//	inputs, _ := node.FanIn(n) // one handle per producer
//
// Each producer sends its keyed value on its own handle and closes it. The
// node fires when every required key has arrived; ordering is recovered from
// the keys (see SortByIndex), never from arrival order.
package dag
