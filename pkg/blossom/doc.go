// Package blossom implements the event-driven flood-fill core of a
// minimum-weight perfect matching (MWPM) decoder for quantum error
// correction.
//
// Decoding turns a syndrome (a set of lit detector nodes) into a minimum
// weight pairing of those nodes with each other or with the boundary of
// the detector graph. Rather than running a general-purpose matching
// algorithm, the solver simulates growth regions that expand outward from
// each detection event at unit speed. When two growth fronts collide the
// solver reacts exactly as Edmonds' blossom algorithm would: regions merge
// into alternating trees, odd cycles contract into blossoms, blossoms
// shatter when forced to re-expand, and augmenting paths flip tentative
// matches into final ones.
//
// # Simulation time
//
// "Time" is a monotonically increasing radius, not wall-clock time. Every
// region's radius is a linear function of time ([varying.Varying]), so the
// moment two fronts will meet is solved in closed form and pushed onto a
// priority queue. The queue is ordered by (time, event kind, owner index),
// which makes decoding fully deterministic for a fixed graph and syndrome.
// Edge weights are doubled internally so that two fronts splitting an odd
// weight still collide at an integer time; weights are halved on output.
//
// # Ownership model
//
// Detector nodes record which region claimed them, the radius at which the
// front arrived, and the parity of logical observables crossed on the way
// from the claiming detection event. A node's effective radius is computed
// by walking from its immediate region up the blossom hierarchy to the
// current root, summing frozen radii, exactly as in a weighted union-find
// with potential offsets. Stale queue entries are detected with generation
// counters rather than pointer identity.
//
// # Usage
//
//	solver, err := blossom.NewSolver(graph)
//	if err != nil { ... }
//	matching, err := solver.Solve([]int{3, 17, 42})
//	if err != nil { ... }
//	for _, p := range matching.Pairs { ... }
//
// A Solver may be reused for many Solve calls against the same graph but
// is not safe for concurrent use. Run independent Solver instances to
// decode multiple syndromes in parallel; they share no mutable state.
package blossom
