package pathfind

import "sync/atomic"

// nodesExpanded is a lifetime counter of search-space nodes visited across
// every TopDownBFS/PlatformerBFS/Beam call, restored from
// _examples/original_source/src/pathfinding.rs's debug counters and
// surfaced via GetPerf/GetPerfHistory as path_nodes_expanded. Dual-tracked
// alongside Cache's hit/miss counters the same way internal/telemetry
// parallels its promauto counters with plain atomics for in-process
// read-back.
var nodesExpanded uint64

// RecordNodesExpanded adds n to the lifetime node-expansion count.
func RecordNodesExpanded(n uint64) {
	atomic.AddUint64(&nodesExpanded, n)
}

// NodesExpanded reports the lifetime node-expansion count.
func NodesExpanded() uint64 {
	return atomic.LoadUint64(&nodesExpanded)
}
