package graph

import "fmt"

// WouldCreateCycle reports that adding an edge from From to To would
// make the routing graph cyclic; the graph is left unchanged.
type WouldCreateCycle struct {
	From, To int
}

func (e *WouldCreateCycle) Error() string {
	return fmt.Sprintf("routing: edge %d -> %d would create a cycle", e.From, e.To)
}

// ChannelNotFound reports a reference to a channel id the graph doesn't
// have.
type ChannelNotFound int

func (e ChannelNotFound) Error() string {
	return fmt.Sprintf("routing: channel %d not found", int(e))
}

// SelfReference reports an attempt to route a channel to itself.
type SelfReference int

func (e SelfReference) Error() string {
	return fmt.Sprintf("routing: channel %d cannot reference itself", int(e))
}

// InvalidConnection reports any other rejected routing operation, such as
// deleting the master channel or addressing a send index out of range.
type InvalidConnection struct {
	From, To int
	Reason   string
}

func (e *InvalidConnection) Error() string {
	return fmt.Sprintf("routing: invalid connection %d -> %d: %s", e.From, e.To, e.Reason)
}
