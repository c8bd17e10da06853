package server

import (
	"sync"

	"github.com/ironsheep/province-tools-mcp/internal/detection"
	"github.com/ironsheep/province-tools-mcp/internal/province"
)

// detectionRun is a completed detection over one image.
type detectionRun struct {
	result    *detection.Result
	provinces []province.Province
	byLabel   map[uint32]int
}

func newDetectionRun(res *detection.Result) *detectionRun {
	run := &detectionRun{
		result:    res,
		provinces: province.BuildProvinces(res.Shapes, nil),
		byLabel:   make(map[uint32]int, len(res.Shapes)),
	}
	for i, p := range run.provinces {
		run.byLabel[p.Label] = i
	}
	return run
}

// province returns the province and shape with the given label.
func (r *detectionRun) province(label uint32) (*province.Province, *detection.Shape, bool) {
	i, ok := r.byLabel[label]
	if !ok {
		return nil, nil, false
	}
	return &r.provinces[i], &r.result.Shapes[i], true
}

// resultCache keeps the latest complete detection run per image path.
type resultCache struct {
	mu   sync.RWMutex
	runs map[string]*detectionRun
}

func newResultCache() *resultCache {
	return &resultCache{runs: make(map[string]*detectionRun)}
}

func (c *resultCache) get(path string) (*detectionRun, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	run, ok := c.runs[path]
	return run, ok
}

func (c *resultCache) put(path string, run *detectionRun) {
	c.mu.Lock()
	c.runs[path] = run
	c.mu.Unlock()
}
