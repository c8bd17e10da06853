package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/province-tools-mcp/internal/detection"
	"github.com/ironsheep/province-tools-mcp/internal/imaging"
	"github.com/ironsheep/province-tools-mcp/internal/province"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "province_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Detection
	case "province_detect":
		return s.handleProvinceDetect(ctx, args)
	case "province_get":
		return s.handleProvinceGet(ctx, args)
	case "province_at":
		return s.handleProvinceAt(ctx, args)
	case "province_preview":
		return s.handleProvincePreview(ctx, args)

	// Color codec
	case "province_decode_color":
		return s.handleProvinceDecodeColor(args)
	case "province_encode_color":
		return s.handleProvinceEncodeColor(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return fmt.Errorf("missing arguments")
	}
	return json.Unmarshal(args, v)
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Detection Handlers ===

// provinceView is the JSON shape of one province in tool results.
type provinceView struct {
	ID             string                `json:"id"`
	Label          uint32                `json:"label"`
	Color          string                `json:"color"`
	UniqueColor    string                `json:"unique_color"`
	Type           string                `json:"type"`
	Terrain        uint8                 `json:"terrain"`
	TerrainName    string                `json:"terrain_name"`
	Coastal        bool                  `json:"coastal"`
	Continent      uint8                 `json:"continent"`
	StateID        uint16                `json:"state_id"`
	Bounds         detection.BoundingBox `json:"bounds"`
	PixelCount     int                   `json:"pixel_count"`
	BorderPixels   int                   `json:"border_pixels,omitempty"`
	AdjacentLabels []uint32              `json:"adjacent_labels"`
}

func newProvinceView(p *province.Province, shape *detection.Shape, withBorder bool) provinceView {
	v := provinceView{
		ID:             p.ID.String(),
		Label:          p.Label,
		Color:          p.Color.Hex(),
		UniqueColor:    p.UniqueColor.Hex(),
		Type:           p.Attributes.Type.String(),
		Terrain:        p.Attributes.Terrain,
		TerrainName:    p.TerrainName,
		Coastal:        p.Attributes.Coastal,
		Continent:      p.Attributes.Continent,
		StateID:        p.Attributes.StateID,
		Bounds:         p.Bounds,
		PixelCount:     p.PixelCount,
		AdjacentLabels: shape.Adjacent,
	}
	if v.AdjacentLabels == nil {
		v.AdjacentLabels = []uint32{}
	}
	if withBorder {
		v.BorderPixels = len(shape.BorderPixels)
	}
	return v
}

type provinceDetectArgs struct {
	Path             string `json:"path"`
	Connectivity     int    `json:"connectivity"`
	MergeConn        int    `json:"merge_connectivity"`
	MinShapeSize     *int   `json:"min_shape_size"`
	MaxShapeRatio    *int   `json:"max_shape_ratio"`
	BorderColor      string `json:"border_color"`
	OutputStages     string `json:"output_stages"`
	IncludeProvinces bool   `json:"include_provinces"`
}

type provinceDetectResult struct {
	Path          string                `json:"path"`
	Width         int                   `json:"width"`
	Height        int                   `json:"height"`
	ProvinceCount int                   `json:"province_count"`
	TypeCounts    map[string]int        `json:"type_counts"`
	Partial       bool                  `json:"partial"`
	StoppedAt     string                `json:"stopped_at,omitempty"`
	Cached        bool                  `json:"cached"`
	Diagnostics   detection.Diagnostics `json:"diagnostics"`
	Snapshots     []string              `json:"snapshots,omitempty"`
	Provinces     []provinceView        `json:"provinces,omitempty"`
}

func (s *Server) handleProvinceDetect(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a provinceDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	// Runs with detection overrides are returned but not cached: lookups
	// always reflect the configured options.
	opts := s.cfg.FinderOptions(s.log)
	custom := false
	if a.Connectivity != 0 {
		conn, err := detection.ParseConnectivity(a.Connectivity)
		if err != nil {
			return nil, err
		}
		opts.Connectivity = conn
		custom = true
	}
	if a.MergeConn != 0 {
		conn, err := detection.ParseConnectivity(a.MergeConn)
		if err != nil {
			return nil, fmt.Errorf("merge_connectivity: %w", err)
		}
		opts.MergeConnectivity = conn
		custom = true
	}
	if a.MinShapeSize != nil {
		if *a.MinShapeSize < 0 {
			return nil, fmt.Errorf("min_shape_size must not be negative")
		}
		opts.MinShapeSize = *a.MinShapeSize
		custom = true
	}
	if a.MaxShapeRatio != nil {
		if *a.MaxShapeRatio < 0 {
			return nil, fmt.Errorf("max_shape_ratio must not be negative")
		}
		opts.MaxShapeRatio = *a.MaxShapeRatio
		custom = true
	}
	if a.BorderColor != "" {
		c, err := imaging.ParseHexColor(a.BorderColor)
		if err != nil {
			return nil, err
		}
		opts.BorderColor = &c
		custom = true
	}
	stagesDir := s.cfg.OutputStagesDir
	if a.OutputStages != "" {
		stagesDir = a.OutputStages
	}

	run, canvas, err := s.detect(ctx, a.Path, opts, stagesDir, !custom)
	if err != nil {
		return nil, err
	}

	res := run.result
	out := &provinceDetectResult{
		Path:          a.Path,
		Width:         res.Width,
		Height:        res.Height,
		ProvinceCount: len(run.provinces),
		TypeCounts:    make(map[string]int),
		Partial:       res.Partial,
		Cached:        !custom && !res.Partial,
		Diagnostics:   res.Diagnostics,
	}
	if res.Partial {
		out.StoppedAt = res.StoppedAt.String()
	}
	if canvas != nil {
		out.Snapshots = canvas.Saved()
	}
	for i := range run.provinces {
		out.TypeCounts[run.provinces[i].Attributes.Type.String()]++
	}
	if a.IncludeProvinces {
		out.Provinces = make([]provinceView, len(run.provinces))
		for i := range run.provinces {
			out.Provinces[i] = newProvinceView(&run.provinces[i], &res.Shapes[i], false)
		}
	}
	return out, nil
}

// detect runs a detection over path. A complete run is cached when cache is
// set.
func (s *Server) detect(ctx context.Context, path string, opts detection.Options, stagesDir string, cache bool) (*detectionRun, *imaging.DebugCanvas, error) {
	buf, err := s.cache.Pixels(path)
	if err != nil {
		return nil, nil, err
	}

	var canvas *imaging.DebugCanvas
	if stagesDir != "" {
		canvas = imaging.NewDebugCanvas(buf.Width, buf.Height, stagesDir)
		canvas.MaxSide = s.cfg.SnapshotMaxSide
		opts.OutputStages = true
		opts.Worker = canvas
	} else {
		opts.OutputStages = false
	}

	res, err := detection.FindAllShapes(ctx, buf, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("detection failed for %s: %w", path, err)
	}

	run := newDetectionRun(res)
	if cache && !res.Partial {
		s.results.put(path, run)
	}
	return run, canvas, nil
}

// runFor returns the cached detection of path, running one with the
// configured options if needed.
func (s *Server) runFor(ctx context.Context, path string) (*detectionRun, error) {
	if run, ok := s.results.get(path); ok {
		return run, nil
	}
	run, _, err := s.detect(ctx, path, s.cfg.FinderOptions(s.log), "", true)
	if err != nil {
		return nil, err
	}
	if run.result.Partial {
		return nil, fmt.Errorf("detection of %s was interrupted at %s", path, run.result.StoppedAt)
	}
	return run, nil
}

type provinceGetArgs struct {
	Path  string `json:"path"`
	Label uint32 `json:"label"`
}

func (s *Server) handleProvinceGet(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a provinceGetArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	run, err := s.runFor(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	p, shape, ok := run.province(a.Label)
	if !ok {
		return nil, fmt.Errorf("no province with label %d", a.Label)
	}
	v := newProvinceView(p, shape, true)
	return &v, nil
}

type provinceAtArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type provinceAtResult struct {
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Color    string        `json:"color"`
	Province *provinceView `json:"province"`
}

func (s *Server) handleProvinceAt(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a provinceAtArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	run, err := s.runFor(ctx, a.Path)
	if err != nil {
		return nil, err
	}

	label, ok := run.result.LabelAt(a.X, a.Y)
	if !ok {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d",
			a.X, a.Y, run.result.Width, run.result.Height)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	c, err := imaging.SampleColor(img, a.X, a.Y)
	if err != nil {
		return nil, err
	}

	out := &provinceAtResult{X: a.X, Y: a.Y, Color: c.Hex()}
	if p, shape, ok := run.province(label); ok {
		v := newProvinceView(p, shape, true)
		out.Province = &v
	}
	return out, nil
}

type provincePreviewArgs struct {
	Path  string  `json:"path"`
	Label uint32  `json:"label"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleProvincePreview(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a provincePreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	run, err := s.runFor(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	_, shape, ok := run.province(a.Label)
	if !ok {
		return nil, fmt.Errorf("no province with label %d", a.Label)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(img, shape, a.Scale)
}

// === Color Codec Handlers ===

type provinceDecodeColorArgs struct {
	Color string `json:"color"`
}

type attributesView struct {
	Color       string `json:"color"`
	Type        string `json:"type"`
	Terrain     uint8  `json:"terrain"`
	TerrainName string `json:"terrain_name"`
	Coastal     bool   `json:"coastal"`
	Continent   uint8  `json:"continent"`
	StateID     uint16 `json:"state_id"`
}

func newAttributesView(c detection.Color, a province.Attributes) *attributesView {
	return &attributesView{
		Color:       c.Hex(),
		Type:        a.Type.String(),
		Terrain:     a.Terrain,
		TerrainName: province.TerrainName(a.Terrain),
		Coastal:     a.Coastal,
		Continent:   a.Continent,
		StateID:     a.StateID,
	}
}

func (s *Server) handleProvinceDecodeColor(args json.RawMessage) (interface{}, error) {
	var a provinceDecodeColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := imaging.ParseHexColor(a.Color)
	if err != nil {
		return nil, err
	}
	return newAttributesView(c, province.Decode(c)), nil
}

type provinceEncodeColorArgs struct {
	Terrain     int    `json:"terrain"`
	TerrainName string `json:"terrain_name"`
	Coastal     bool   `json:"coastal"`
	Continent   int    `json:"continent"`
	Type        string `json:"type"`
	StateID     int    `json:"state_id"`
}

func (s *Server) handleProvinceEncodeColor(args json.RawMessage) (interface{}, error) {
	var a provinceEncodeColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	typ, err := province.ParseType(a.Type)
	if err != nil {
		return nil, err
	}
	terrain := a.Terrain
	if a.TerrainName != "" {
		id, err := province.TerrainID(a.TerrainName)
		if err != nil {
			return nil, err
		}
		terrain = int(id)
	}
	for _, f := range []struct {
		name     string
		v, limit int
	}{
		{"terrain", terrain, province.MaxTerrain},
		{"continent", a.Continent, province.MaxContinent},
		{"state_id", a.StateID, province.MaxStateID},
	} {
		if f.v < 0 || f.v > f.limit {
			return nil, fmt.Errorf("%w: %s %d not in 0..%d", province.ErrFieldRange, f.name, f.v, f.limit)
		}
	}

	attrs := province.Attributes{
		Terrain:   uint8(terrain),
		Coastal:   a.Coastal,
		Continent: uint8(a.Continent),
		Type:      typ,
		StateID:   uint16(a.StateID),
	}
	c, err := province.Encode(attrs)
	if err != nil {
		return nil, err
	}
	return newAttributesView(c, attrs), nil
}
