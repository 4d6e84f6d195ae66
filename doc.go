// Package butina clusters chemical fingerprints with the Butina method.
//
// Butina is a deterministic, single-threshold, exemplar-based clustering
// algorithm. Given n fixed-length binary fingerprints and a distance
// threshold, it builds the neighbor graph of all pairs whose distance is at
// most the threshold and then greedily carves out clusters around the point
// with the most unassigned neighbors.
//
// # Quick Start
//
//	fps := []*fingerprint.Fingerprint{...}
//	store, _ := fingerprint.NewStore(fps)
//
//	res, err := butina.Run(ctx, store, butina.WithThreshold(0.35))
//	if err != nil {
//	    return err
//	}
//	for ord, c := range res.Clusters() {
//	    fmt.Println(ord, c.Exemplar, c.Members)
//	}
//
// # Threshold
//
// The threshold is expressed in distance units (1 - similarity). Two
// fingerprints are neighbors when their distance is at most the threshold,
// which is the same as similarity being at least Config.SimilarityCutoff().
// The comparison is made on similarities with a tolerance of
// neighbor.BoundaryTolerance, so a threshold of 0.3 and a cutoff of 0.7
// give the same partition.
//
// # Pipeline
//
// Run is composed of independent packages that can also be used directly:
//
//   - fingerprint: immutable bit vectors and the store holding them
//   - similarity: Tanimoto and Dice kernels, batch and all-pairs products
//   - neighbor: the parallel thresholded neighbor index
//   - cluster: the Butina engine and the result assembler
//
// The neighbor build is parallel over row blocks and bounded by the worker,
// memory and IO limits of internal/resource. Clustering itself is
// single-threaded.
package butina
