// Package cluster implements Butina clustering over a thresholded neighbor
// graph, and the assembler that turns the cluster list into lookup views.
//
// # Algorithm
//
// Every point is either unassigned or assigned to exactly one cluster.
// Repeatedly:
//
//  1. pick the unassigned point with the most unassigned neighbors,
//     breaking ties by the smallest index
//  2. seal a cluster holding that exemplar and all of its unassigned
//     neighbors, assigning them in one step
//
// When no unassigned point has an unassigned neighbor left, each remaining
// point becomes a singleton cluster, in ascending index order.
//
// Clusters are returned in creation order. The first cluster is always a
// largest one; later clusters are only non-increasing as a consequence of
// the greedy rule. Use Assemble with SortBySize for a strict order.
//
// With Options.Reordering disabled, candidates are visited once in order of
// their initial neighbor count (ties by smallest index), which matches the
// classic non-reordering variant of the method.
package cluster
