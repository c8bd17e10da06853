// Package detection finds the provinces drawn on a province map image.
//
// A province map is a flat-colored RGB image where every province is a
// region of one exact color. The package labels those regions with a
// two-pass connected-component labelling (CCL) algorithm and returns one
// Shape per region with its pixels, bounding box, border pixels and the
// labels of the shapes it touches.
//
// # Pipeline
//
// A Finder walks a fixed sequence of stages:
//
//  1. PASS1: row-major scan assigning provisional labels. Neighbours already
//     visited with the same color share a label; conflicting labels are
//     recorded as equivalent in a union-find forest.
//  2. OUTPUT_PASS1: optional debug rendering of the provisional labels.
//  3. PASS2: every pixel is rewritten to its root label and shapes are built.
//  4. OUTPUT_PASS2: optional debug rendering of the resolved labels.
//  5. MERGE_BORDERS: border-line pixels are absorbed into a neighbouring
//     shape and same-colored fragments that still touch are unified.
//  6. ERROR_CHECK: shapes are validated and adjacency is computed.
//  7. DONE
//
// # Connectivity
//
// Options.Connectivity selects between 4-connected labelling (left and top
// are the visited neighbours) and 8-connected labelling (left, top-left, top
// and top-right). Options.MergeConnectivity sets the BorderMerger
// neighbourhood independently; 4-connected labelling with an 8-connected
// merger joins diagonal-only contacts as merge repairs. Adjacency between
// shapes always uses the full
// 8-neighbourhood, so shapes touching only at a corner are still neighbours.
//
// # Coordinate System
//
// Origin (0, 0) is the top-left pixel, X grows rightward and Y downward.
// Bounding boxes are inclusive on both corners.
//
// # Cancellation
//
// Finder.Estop, or cancelling the context passed to Find, stops the run at the
// next scanline or stage boundary. The Result is then marked Partial and holds
// whatever had been built.
//
// # Diagnostics
//
// ERROR_CHECK never fails a run. Undersized and oversized shapes, labels
// without a recorded color and repaired fragments are reported as Anomalies.
package detection
