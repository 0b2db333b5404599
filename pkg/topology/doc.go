// Package topology models the conveyance network of a drainage model as an
// undirected graph and as a rooted tree.
//
// # Graph
//
// A [Graph] holds network nodes (with invert elevation) and links (with
// length). Edges are symmetric: connecting A to B through link L records
// (B, L) in A's neighbour list and (A, L) in B's. A link joins at most one
// pair of nodes. There is no deletion; nodes and links may be renamed in
// place and keep their edges.
//
//	g := topology.New()
//	_ = g.AddNode("J1", 12.5)
//	_ = g.AddNeighbor("J1", "J2", 11.0, "C1", 400)
//
// [Build] derives a graph from a [Description] of link and orifice
// endpoints, typically read from a model input file by package inp.
//
// # Reachability
//
// [Reachable] returns every node connected to a start node. The traversal is
// breadth-first and visits each node at most once, so it terminates on
// networks with loops.
//
// # Tree
//
// A [Tree] is a rooted, parent-linked view of the network in which every
// non-root node carries the positive length of the link to its parent.
// Nodes are addressed through [NodeRef] handles; [Tree.Validate] rejects
// handles from another tree or for invalidated nodes. [SpanningTree] builds
// one from a graph.
//
// # Rendering
//
// [ToDOT] exports a graph as Graphviz DOT and [RenderSVG] renders it.
//
// # Concurrency
//
// Graph and Tree are not safe for concurrent mutation; callers sharing them
// across goroutines must synchronize externally.
package topology
