package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/costnote/output"
)

// slowThreshold marks operations worth highlighting in the report.
const slowThreshold = 100 * time.Millisecond

// Report writes the collected timing tree to w. Example output:
//
//	export notes: 125ms
//	├─ vault.scan: 85ms
//	└─ journal.ingest (42 lines): 40ms
//
// A nil styles renders without terminal styling.
func (c *Collector) Report(w io.Writer, styles *output.Styles) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}

	name := c.root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", name, formatDuration(c.root.duration()))

	for i, child := range c.root.children {
		formatNode(w, child, "", i == len(c.root.children)-1, styles)
	}
}

// formatNode recursively renders a node and its children.
func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	duration := node.duration()
	timing := formatDuration(duration)

	if styles != nil {
		if duration >= slowThreshold {
			timing = styles.Warning(timing)
		} else {
			timing = styles.Dim(timing)
		}
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(prefix+branch), node.name, timing)
	} else {
		_, _ = fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, node.name, timing)
	}

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

func (n *timerNode) duration() time.Duration {
	return n.end.Sub(n.start)
}

// formatDuration shows milliseconds below a second, seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
