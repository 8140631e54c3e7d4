package render

import (
	"io"
	"sync"
)

// Buffer collects the nodes of one rerun in order. It is safe for
// concurrent use.
type Buffer struct {
	mu    sync.Mutex
	nodes []Node
}

// Add appends n.
func (b *Buffer) Add(n Node) {
	b.mu.Lock()
	b.nodes = append(b.nodes, n)
	b.mu.Unlock()
}

// Nodes returns a copy of the collected nodes.
func (b *Buffer) Nodes() []Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Node(nil), b.nodes...)
}

// Len returns the number of collected nodes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.nodes)
}

// Reset drops every node.
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.nodes = nil
	b.mu.Unlock()
}

// Render writes every node in order.
func (b *Buffer) Render(w io.Writer) error {
	for _, n := range b.Nodes() {
		if err := n.Render(w); err != nil {
			return err
		}
	}
	return nil
}
