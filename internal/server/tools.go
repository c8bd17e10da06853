package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the province map image (BMP or PNG)",
	}
}

func labelProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Province label as reported by province_detect",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent province operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Detection
		{
			Name:        "province_detect",
			Description: "Find every contiguous single-colored province in a map image. Returns counts, diagnostics (undersized or oversized provinces, absorbed border lines) and optionally every province with its decoded attributes and neighbours. Only runs with the configured options are cached for province_get, province_at and province_preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"connectivity": map[string]interface{}{
						"type":        "integer",
						"description": "Pixel connectivity: 4 or 8. Defaults to the server configuration",
						"enum":        []int{4, 8},
					},
					"merge_connectivity": map[string]interface{}{
						"type":        "integer",
						"description": "Border merger connectivity: 4 or 8. Defaults to the labelling connectivity; 8 with connectivity 4 joins diagonal-only contacts",
						"enum":        []int{4, 8},
					},
					"min_shape_size": map[string]interface{}{
						"type":        "integer",
						"description": "Flag provinces with this many pixels or fewer. 0 disables the check",
					},
					"max_shape_ratio": map[string]interface{}{
						"type":        "integer",
						"description": "Flag provinces spanning 1/N of the image width or height. 0 disables the check",
					},
					"border_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color (e.g., \"#000000\") of border lines to absorb into neighbouring provinces",
					},
					"output_stages": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write labels1.png and labels2.png debug snapshots into",
					},
					"include_provinces": map[string]interface{}{
						"type":        "boolean",
						"description": "Include every province in the result. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "province_get",
			Description: "Get one province by label: bounds, pixel count, decoded attributes and adjacent labels. Runs detection with the server defaults if the image has not been detected yet.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"label": labelProperty(),
				},
				"required": []string{"path", "label"},
			},
		},
		{
			Name:        "province_at",
			Description: "Get the province covering a pixel. The province is null for absorbed or unlabelled pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0 = left edge)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0 = top edge)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "province_preview",
			Description: "Render one province as a base64-encoded PNG cropped to its bounding box. Pixels outside the province are transparent.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"label": labelProperty(),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 4.0 to enlarge small provinces). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "label"},
			},
		},

		// Color Codec
		{
			Name:        "province_decode_color",
			Description: "Decode a province color into terrain, coastal flag, continent, province type and state ID.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color, e.g. \"#0D5123\"",
					},
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "province_encode_color",
			Description: "Encode province attributes into the color that represents them on the map.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"terrain": map[string]interface{}{
						"type":        "integer",
						"description": "Terrain ID (0-63)",
					},
					"terrain_name": map[string]interface{}{
						"type":        "string",
						"description": "Terrain name (e.g., \"forest\"). Overrides terrain when set",
					},
					"coastal": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether the province touches the sea",
					},
					"continent": map[string]interface{}{
						"type":        "integer",
						"description": "Continent ID (0-7)",
					},
					"type": map[string]interface{}{
						"type":        "string",
						"description": "Province type",
						"enum":        []string{"unknown", "land", "lake", "sea"},
					},
					"state_id": map[string]interface{}{
						"type":        "integer",
						"description": "State ID (0-4095)",
					},
				},
				"required": []string{"type"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
