package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/image-stats/internal/exifmeta"
	"github.com/ironsheep/image-stats/internal/imaging"
	"github.com/ironsheep/image-stats/internal/source"
	"github.com/ironsheep/image-stats/internal/stats"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_stats", "image_exif").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Resolves pipeline options against the server defaults
//  3. Loads the image from the path cache or the loader
//  4. Runs the stats pipeline, or one branch of it
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_stats":
		return s.handleImageStats(ctx, args)
	case "image_colors":
		return s.handleImageColors(ctx, args)
	case "image_exif":
		return s.handleImageExif(ctx, args)
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type imageArgs struct {
	Path         string `json:"path"`
	URL          string `json:"url"`
	Method       string `json:"method"`
	MaxDimension int    `json:"max_dimension"`
}

func parseImageArgs(args json.RawMessage) (imageArgs, error) {
	var a imageArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return a, err
		}
	}
	a.Path = strings.TrimSpace(a.Path)
	a.URL = strings.TrimSpace(a.URL)

	switch {
	case a.Path == "" && a.URL == "":
		return a, errors.New("path or url is required")
	case a.Path != "" && a.URL != "":
		return a, errors.New("path and url are mutually exclusive")
	case a.MaxDimension < 0:
		return a, fmt.Errorf("max_dimension must be positive, got %d", a.MaxDimension)
	}
	return a, nil
}

// options applies the per-call overrides in a to the server defaults.
func (s *Server) options(a imageArgs) stats.Options {
	opts := s.opts
	if a.Method != "" {
		opts.Method = imaging.ParseMethod(strings.ToLower(a.Method))
	}
	if a.MaxDimension > 0 {
		opts.MaxDimension = a.MaxDimension
	}
	return opts
}

func (s *Server) load(ctx context.Context, a imageArgs) (*source.Decoded, error) {
	if a.Path != "" {
		return s.cache.Load(ctx, a.Path)
	}
	src, err := source.Parse(a.URL)
	if err != nil {
		return nil, err
	}
	return s.loader.Load(ctx, src)
}

func (s *Server) handleImageStats(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parseImageArgs(args)
	if err != nil {
		return nil, err
	}
	d, err := s.load(ctx, a)
	if err != nil {
		return nil, err
	}
	return stats.Run(d.Image, d, s.options(a)), nil
}

type colorsResult struct {
	ColorData *imaging.ColorResult `json:"color_data"`
}

func (s *Server) handleImageColors(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parseImageArgs(args)
	if err != nil {
		return nil, err
	}
	d, err := s.load(ctx, a)
	if err != nil {
		return nil, err
	}
	return colorsResult{ColorData: stats.ColorData(d.Image, s.options(a))}, nil
}

type exifResult struct {
	ExifData exifmeta.Map `json:"exif_data"`
}

func (s *Server) handleImageExif(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parseImageArgs(args)
	if err != nil {
		return nil, err
	}
	d, err := s.load(ctx, a)
	if err != nil {
		return nil, err
	}
	return exifResult{ExifData: exifmeta.Collect(d)}, nil
}
