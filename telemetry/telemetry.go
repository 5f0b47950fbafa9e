// Package telemetry provides hierarchical timing collection for operations.
// Collectors travel through context so instrumentation stays out of function
// signatures; when no collector is attached, every call is a no-op.
//
// Example usage:
//
//	collector := telemetry.NewCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "export")
//	defer timer.End()
//
//	child := timer.Child("scan vault")
//	// ... work ...
//	child.End()
//
//	collector.Report(os.Stderr, styles)
package telemetry

import (
	"context"
	"sync"
	"time"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

// Timer tracks a single operation's duration. Timers nest via Child.
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this timer.
	Child(name string) Timer
}

// Collector gathers a tree of timed operations. A nil *Collector is valid
// and collects nothing.
type Collector struct {
	mu      sync.Mutex
	root    *timerNode
	current *timerNode
}

// timerNode is a single timed operation in the tree.
type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *timerNode
	children []*timerNode
}

// NewCollector creates an empty timing collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Start begins timing an operation. The first timer started becomes the root
// of the report tree; later ones nest under the currently running timer.
func (c *Collector) Start(name string) Timer {
	if c == nil {
		return noopTimer{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: time.Now()}

	if c.root == nil {
		c.root = node
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timer{collector: c, node: node}
}

// timer records to a Collector.
type timer struct {
	collector *Collector
	node      *timerNode
}

func (t *timer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.end = time.Now()
	if t.node.parent != nil {
		t.collector.current = t.node.parent
	}
}

func (t *timer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{name: name, start: time.Now(), parent: t.node}
	t.node.children = append(t.node.children, node)

	return &timer{collector: t.collector, node: node}
}

// noopTimer is returned when no collector is attached.
type noopTimer struct{}

func (noopTimer) End()               {}
func (noopTimer) Child(string) Timer { return noopTimer{} }

// WithCollector attaches a collector to a context.
func WithCollector(ctx context.Context, collector *Collector) context.Context {
	return context.WithValue(ctx, contextKey{}, collector)
}

// FromContext extracts the collector from context, or nil when absent. A nil
// collector is safe to use; its timers do nothing.
func FromContext(ctx context.Context) *Collector {
	collector, _ := ctx.Value(contextKey{}).(*Collector)
	return collector
}

// StartTimer starts a timer on the context's collector.
func StartTimer(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}
