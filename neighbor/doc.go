// Package neighbor builds the thresholded neighbor index used by Butina
// clustering.
//
// For a distance threshold t, the neighbor set of point i is every j != i
// with distance(i, j) <= t, which is the same as similarity >= 1 - t.
// Sets are symmetric and stored as roaring bitmaps.
//
// Build evaluates every unordered pair once. Rows are split into blocks
// that run on bounded workers; each block keeps its own edge buffer and
// discards the raw distances as soon as membership is known. Buffers are
// merged in block order, so the resulting index does not depend on worker
// scheduling.
package neighbor
