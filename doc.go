// Package gridplan is a graph-search engine for multi-agent grid planning:
// colored agents on a shared grid push and pull colored boxes onto goal
// cells, one joint action per timestep.
//
// It exposes two main entry points:
//
//   - Search: run the search to completion and get a Result with the plan.
//   - Stepper: iterate the search one expansion at a time to drive UIs or
//     debugging tools.
//
// The frontier strategy (breadth-first, depth-first, best-first under a
// heuristic) is pluggable through the Frontier interface; states are
// immutable and deduplicated by value identity across the frontier and
// the explored set.
package gridplan
