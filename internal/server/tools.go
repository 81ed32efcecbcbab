package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageInputSchema is shared by every tool: an image given by local path or
// by URL, plus optional pipeline overrides.
func imageInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path to the image file. Either path or url is required.",
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "http(s):// URL of the image, or az://container/blob when blob storage is configured.",
			},
			"method": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"arithmetic", "harmonic", "geometric"},
				"description": "Averaging method for the average color. Defaults to the server setting.",
			},
			"max_dimension": map[string]interface{}{
				"type":        "integer",
				"minimum":     1,
				"description": "Longer side, in pixels, the image is shrunk to before color statistics. Default 512.",
			},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "image_stats",
			Description: "Compute the color statistics and sanitized EXIF metadata of an image. " +
				"Returns {exif_data, color_data}; color_data is null when the image has no pixel with alpha >= 128.",
			InputSchema: imageInputSchema(),
		},
		{
			Name: "image_colors",
			Description: "Compute only the average color (arithmetic, harmonic or geometric mean) and the " +
				"dominant color of an image, as normalized RGB and #rrggbb hex.",
			InputSchema: imageInputSchema(),
		},
		{
			Name: "image_exif",
			Description: "Read the EXIF metadata of an image as a tag-name keyed map of JSON-safe values. " +
				"Rationals become decimals; values that cannot be represented become strings.",
			InputSchema: imageInputSchema(),
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
