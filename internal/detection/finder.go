package detection

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Stage is a step of the Finder pipeline. Stages only move forward, one at a
// time, except that any stage may jump to StageDone when the run is stopped.
type Stage int32

const (
	StageStart Stage = iota
	StagePass1
	StageOutputPass1
	StagePass2
	StageOutputPass2
	StageMergeBorders
	StageErrorCheck
	StageDone
)

// String returns a human readable stage name.
func (s Stage) String() string {
	switch s {
	case StageStart:
		return "Start"
	case StagePass1:
		return "Pass 1"
	case StageOutputPass1:
		return "Output Pass 1"
	case StagePass2:
		return "Pass 2"
	case StageOutputPass2:
		return "Output Pass 2"
	case StageMergeBorders:
		return "Merge Borders"
	case StageErrorCheck:
		return "Error Checking"
	case StageDone:
		return "Done"
	default:
		return fmt.Sprintf("Stage(%d)", int32(s))
	}
}

// PixelSource supplies a packed RGB image: 3*width*height bytes, rows
// top-down, pixels left to right, channels R, G, B, no row padding.
type PixelSource interface {
	Bounds() (width, height int)
	RGB() []byte
}

// Result is the output of a detection run.
type Result struct {
	// Shapes lists the finalized shapes in order of first appearance.
	Shapes []Shape `json:"shapes"`

	// Diagnostics holds the anomalies reported by ERROR_CHECK.
	Diagnostics Diagnostics `json:"diagnostics"`

	// Partial is set when the run was stopped before reaching DONE normally.
	// Shapes then holds whatever had been built so far.
	Partial bool `json:"partial"`

	// Stage is StageDone once Find returns.
	Stage Stage `json:"stage"`

	// StoppedAt is the stage that was interrupted when Partial is set.
	StoppedAt Stage `json:"stopped_at,omitempty"`

	Width  int `json:"width"`
	Height int `json:"height"`

	labels []uint32
	index  map[uint32]int
}

// LabelAt returns the root label of pixel (x, y). Label 0 means the pixel
// belongs to no shape.
func (r *Result) LabelAt(x, y int) (uint32, bool) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height || r.labels == nil {
		return 0, false
	}
	return r.labels[y*r.Width+x], true
}

// Shape returns the shape with the given root label.
func (r *Result) Shape(label uint32) (*Shape, bool) {
	i, ok := r.index[label]
	if !ok {
		return nil, false
	}
	return &r.Shapes[i], true
}

// Finder drives one connected-component labelling run over a PixelSource.
//
// A Finder runs once. Estop may be called from any goroutine; the run polls
// it between scanlines and between stages and then returns a partial Result.
type Finder struct {
	src  PixelSource
	opts Options
	log  *slog.Logger

	stage atomic.Int32
	estop atomic.Bool
	ran   atomic.Bool

	pix    []byte
	labels *LabelField
	set    *shapeSet
	diag   Diagnostics
}

// NewFinder creates a Finder for src.
func NewFinder(src PixelSource, opts Options) *Finder {
	opts.Connectivity = opts.Connectivity.normalize()
	return &Finder{
		src:  src,
		opts: opts,
		log:  opts.logger(),
	}
}

// Estop requests cooperative cancellation of the run.
func (f *Finder) Estop() { f.estop.Store(true) }

// Stage returns the stage the run is currently in.
func (f *Finder) Stage() Stage { return Stage(f.stage.Load()) }

func (f *Finder) stopped() bool { return f.estop.Load() }

// advance moves the pipeline to next, which must directly follow the current
// stage.
func (f *Finder) advance(next Stage) error {
	cur := f.Stage()
	if next != cur+1 {
		return fmt.Errorf("%w: %s -> %s", ErrStageOrder, cur, next)
	}
	f.stage.Store(int32(next))
	f.log.Debug("stage", "stage", next.String())
	return nil
}

// FindAllShapes is a convenience wrapper that runs a Finder with opts.
func FindAllShapes(ctx context.Context, src PixelSource, opts Options) (*Result, error) {
	return NewFinder(src, opts).Find(ctx)
}

// Find runs the full pipeline and returns the finalized shapes.
//
// Fatal conditions (nil source, invalid dimensions, a buffer that does not
// match them, label field allocation failure, an image made only of border
// lines) return an error and no result. Cancellation through Estop or ctx is
// not an error: the returned Result has Partial set.
//
// # Algorithm
//
//  1. PASS1: row-major scan assigning provisional labels with union-find
//  2. OUTPUT_PASS1: optional debug snapshot of provisional labels
//  3. PASS2: resolve roots, build shapes, bounding boxes and border pixels
//  4. OUTPUT_PASS2: optional debug snapshot of resolved labels
//  5. MERGE_BORDERS: absorb border lines, repair fragmented same-color shapes
//  6. ERROR_CHECK: validate shapes and compute adjacency
//  7. DONE
func (f *Finder) Find(ctx context.Context) (*Result, error) {
	if !f.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}
	if f.src == nil {
		return nil, ErrNilSource
	}

	width, height := f.src.Bounds()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	f.pix = f.src.RGB()
	if want := 3 * width * height; len(f.pix) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBufferSize, len(f.pix), want)
	}

	if ctx != nil {
		if ctx.Err() != nil {
			f.Estop()
		}
		release := context.AfterFunc(ctx, f.Estop)
		defer release()
	}

	lf, err := newLabelField(width, height)
	if err != nil {
		return nil, err
	}
	f.labels = lf

	return f.run()
}

func (f *Finder) run() (*Result, error) {
	lf := f.labels
	isLine := f.opts.isLine

	if err := f.advance(StagePass1); err != nil {
		return nil, err
	}
	if f.stopped() {
		return f.finish(true), nil
	}
	f.log.Info("performing pass 1", "width", lf.width, "height", lf.height,
		"connectivity", f.opts.Connectivity.String())
	lines, ok := lf.labelPass(f.pix, f.opts.Connectivity.scanWindow(), isLine, f.stopped)
	f.diag.BorderLinePixels = lines
	if !ok {
		return f.finish(true), nil
	}
	if lf.NumLabels() == 0 {
		return nil, fmt.Errorf("%w: %d pixels", ErrNoRegions, lines)
	}

	if err := f.advance(StageOutputPass1); err != nil {
		return nil, err
	}
	if !f.outputStage(StageOutputPass1) {
		return f.finish(true), nil
	}

	if err := f.advance(StagePass2); err != nil {
		return nil, err
	}
	f.log.Info("performing pass 2", "labels", lf.NumLabels())
	set, ok := lf.buildShapes(f.pix, f.stopped)
	f.set = set
	if !ok {
		return f.finish(true), nil
	}
	f.log.Info("generated shapes", "count", len(set.shapes))

	if err := f.advance(StageOutputPass2); err != nil {
		return nil, err
	}
	if !f.outputStage(StageOutputPass2) {
		return f.finish(true), nil
	}

	if err := f.advance(StageMergeBorders); err != nil {
		return nil, err
	}
	if f.stopped() {
		return f.finish(true), nil
	}
	mergeConn := f.opts.mergeConnectivity()
	f.log.Info("merging borders", "border_line_pixels", lines,
		"connectivity", mergeConn.String())
	merged := lf.mergeBorders(f.pix, set, mergeConn, isLine, f.stopped)
	f.diag.AbsorbedPixels = merged.absorbed
	f.diag.MergedShapes = merged.removed
	if merged.repairs > 0 {
		f.diag.add(AnomalyMergeRepair, 0,
			"border merge unified %d fragmented shapes", merged.repairs)
	}
	if !merged.complete {
		return f.finish(true), nil
	}

	if err := f.advance(StageErrorCheck); err != nil {
		return nil, err
	}
	if !f.errorCheck() {
		return f.finish(true), nil
	}

	return f.finish(false), nil
}

// outputStage renders the current labels through the worker. It reports
// false when the run was stopped while rendering.
func (f *Finder) outputStage(stage Stage) bool {
	if f.stopped() {
		return false
	}
	w := f.opts.Worker
	if !f.opts.OutputStages || w == nil {
		return true
	}

	lf := f.labels
	for y := 0; y < lf.height; y++ {
		if f.stopped() {
			return false
		}
		for x := 0; x < lf.width; x++ {
			l := lf.labels[lf.index(x, y)]
			c := DebugColor(l)
			if l == 0 && f.opts.BorderColor != nil {
				c = *f.opts.BorderColor
			}
			w.WriteDebugColor(x, y, c)
		}
	}
	w.UpdateCallback(Rect{X: 0, Y: 0, W: lf.width, H: lf.height})

	if snap, ok := w.(Snapshotter); ok {
		if err := snap.Snapshot(stage); err != nil {
			f.log.Warn("stage snapshot failed", "stage", stage.String(), "err", err)
			f.diag.SnapshotErrors = append(f.diag.SnapshotErrors,
				fmt.Sprintf("%s: %v", stage, err))
		}
	}
	return !f.stopped()
}

// errorCheck validates every shape and computes adjacency. It reports false
// when the run was stopped.
func (f *Finder) errorCheck() bool {
	before := f.diag.Count()
	for i := range f.set.shapes {
		if f.stopped() {
			return false
		}
		f.diag.checkShape(f.labels, &f.set.shapes[i], f.opts)
	}
	for _, a := range f.diag.Anomalies[before:] {
		f.log.Warn("shape anomaly", "kind", string(a.Kind), "label", a.Label, "detail", a.Message)
	}

	if !f.labels.resolveAdjacency(f.set, f.stopped) {
		return false
	}
	if n := f.diag.Count(); n > 0 {
		f.log.Warn("error check found problematic shapes", "count", n)
	}
	return true
}

// finish moves the machine to DONE and packages the result.
func (f *Finder) finish(partial bool) *Result {
	last := f.Stage()
	f.stage.Store(int32(StageDone))

	res := &Result{
		Diagnostics: f.diag,
		Partial:     partial,
		Stage:       StageDone,
		Width:       f.labels.width,
		Height:      f.labels.height,
		index:       make(map[uint32]int),
	}
	if partial {
		res.StoppedAt = last
	}
	if f.set != nil {
		res.Shapes = f.set.shapes
		for i := range res.Shapes {
			res.index[res.Shapes[i].Label] = i
		}
	}
	f.labels.flatten()
	res.labels = f.labels.labels

	if partial {
		f.log.Warn("shape detection stopped early", "stage", last.String(), "shapes", len(res.Shapes))
	} else {
		f.log.Info("shape detection done", "shapes", len(res.Shapes), "anomalies", f.diag.Count())
	}
	return res
}
