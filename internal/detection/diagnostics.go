package detection

import "fmt"

// AnomalyKind classifies an ERROR_CHECK finding.
type AnomalyKind string

const (
	// AnomalyUndersized marks a shape with too few pixels to be a province.
	AnomalyUndersized AnomalyKind = "undersized"
	// AnomalyOversized marks a shape whose bounding box spans too much of the map.
	AnomalyOversized AnomalyKind = "oversized"
	// AnomalyMissingColor marks a shape whose label has no recorded color.
	AnomalyMissingColor AnomalyKind = "missing_color"
	// AnomalyMergeRepair marks a fragmented region unified by the BorderMerger.
	AnomalyMergeRepair AnomalyKind = "merge_repair"
)

// Anomaly is one advisory finding about the input image. Anomalies never
// abort a run.
type Anomaly struct {
	Kind    AnomalyKind `json:"kind"`
	Label   uint32      `json:"label"`
	Message string      `json:"message"`
}

// Diagnostics collects everything ERROR_CHECK and the merge stage report.
type Diagnostics struct {
	// Anomalies lists every advisory finding in discovery order.
	Anomalies []Anomaly `json:"anomalies"`

	// BorderLinePixels is the number of pixels carrying the border-line color.
	BorderLinePixels int `json:"border_line_pixels"`

	// AbsorbedPixels is the number of border-line pixels folded into shapes.
	AbsorbedPixels int `json:"absorbed_pixels"`

	// MergedShapes is the number of shapes the BorderMerger folded into others.
	MergedShapes int `json:"merged_shapes"`

	// SnapshotErrors holds failures reported by a Snapshotter worker.
	SnapshotErrors []string `json:"snapshot_errors,omitempty"`
}

// Count returns the number of anomalies found.
func (d *Diagnostics) Count() int { return len(d.Anomalies) }

// CountKind returns the number of anomalies of kind k.
func (d *Diagnostics) CountKind(k AnomalyKind) int {
	n := 0
	for _, a := range d.Anomalies {
		if a.Kind == k {
			n++
		}
	}
	return n
}

func (d *Diagnostics) add(kind AnomalyKind, label uint32, format string, args ...interface{}) {
	d.Anomalies = append(d.Anomalies, Anomaly{
		Kind:    kind,
		Label:   label,
		Message: fmt.Sprintf(format, args...),
	})
}

// checkShape validates one finalized shape against opts.
func (d *Diagnostics) checkShape(lf *LabelField, shape *Shape, opts Options) {
	if _, ok := lf.ColorOf(shape.Label); !ok {
		d.add(AnomalyMissingColor, shape.Label, "shape %d has no recorded color", shape.Label)
	}

	if opts.MinShapeSize > 0 && len(shape.Pixels) <= opts.MinShapeSize {
		d.add(AnomalyUndersized, shape.Label,
			"shape %d has only %d pixels; provinces need more than %d",
			shape.Label, len(shape.Pixels), opts.MinShapeSize)
	}

	if opts.MaxShapeRatio > 0 {
		maxW := float64(lf.width) / float64(opts.MaxShapeRatio)
		maxH := float64(lf.height) / float64(opts.MaxShapeRatio)
		w, h := shape.Bounds.Width(), shape.Bounds.Height()
		if float64(w) >= maxW || float64(h) >= maxH {
			d.add(AnomalyOversized, shape.Label,
				"shape %d has a %dx%d bounding box; limit is 1/%d of %dx%d (%.1fx%.1f)",
				shape.Label, w, h, opts.MaxShapeRatio, lf.width, lf.height, maxW, maxH)
		}
	}
}
