package arbor

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// newLogger creates the scene logger writing to w at the given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "arbor",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func defaultLogger() *log.Logger {
	return newLogger(os.Stderr, log.InfoLevel)
}

// Thresholds for the debug-mode tree warnings.
const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// treeStats summarizes a subtree for debug logging.
type treeStats struct {
	nodes    int
	maxDepth int
}

// collectTreeStats walks root once, counting nodes and logging a warning for
// every node that is nested too deeply or has too many children.
func collectTreeStats(root *Node, logger *log.Logger) treeStats {
	var st treeStats
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		st.nodes++
		st.maxDepth = max(st.maxDepth, depth)
		if depth == debugMaxTreeDepth+1 {
			logger.Warn("tree depth exceeds threshold", "node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
		}
		if len(n.children) > debugMaxChildCount {
			logger.Warn("too many children", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
		}
		for _, c := range n.children {
			visit(c, depth+1)
		}
	}
	visit(root, 1)
	return st
}
