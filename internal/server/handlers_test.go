package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/image-stats/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
	return path
}

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	require.NoError(t, err)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	require.NotNil(t, resp, "handleRequest returned nil")
	return resp
}

// toolText extracts and decodes the text content of a successful tool call.
func toolText(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	require.Nil(t, resp.Error, "unexpected error: %+v", resp.Error)
	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok, "Result should be a map")
	content, ok := result["content"].([]map[string]interface{})
	require.True(t, ok, "unexpected content: %v", result["content"])
	require.Len(t, content, 1)
	assert.Equal(t, "text", content[0]["type"])
	text, _ := content[0]["text"].(string)
	require.NoError(t, json.Unmarshal([]byte(text), v), "tool result %q", text)
}

func TestHandleToolsCall_ImageStats(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 40, 30, color.NRGBA{255, 0, 0, 255})

	var res stats.Result
	toolText(t, callTool(t, s, "image_stats", map[string]interface{}{"path": imgPath}), &res)

	require.NotNil(t, res.ColorData, "color_data should not be null for an opaque image")
	assert.Equal(t, "#ff0000", res.ColorData.AvgColor.Hex)
	assert.Equal(t, [3]float64{1, 0, 0}, res.ColorData.DominantColor.RGB)
	require.NotNil(t, res.ExifData)
	assert.Empty(t, res.ExifData)
	assert.Equal(t, 1, s.cache.Len())
}

func TestHandleToolsCall_ImageColors(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 10, 10, color.NRGBA{0, 0, 255, 255})

	var res struct {
		ColorData *struct {
			AvgColor struct {
				Hex    string `json:"hex"`
				Method string `json:"method"`
			} `json:"avg_color"`
		} `json:"color_data"`
		ExifData map[string]interface{} `json:"exif_data"`
	}
	toolText(t, callTool(t, s, "image_colors", map[string]interface{}{
		"path":          imgPath,
		"method":        "geometric",
		"max_dimension": 4,
	}), &res)

	require.NotNil(t, res.ColorData)
	assert.Equal(t, "geometric", res.ColorData.AvgColor.Method)
	assert.Equal(t, "#0000ff", res.ColorData.AvgColor.Hex)
	assert.Nil(t, res.ExifData, "image_colors should not report exif_data")
}

func TestHandleToolsCall_ImageColorsTransparent(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 10, 10, color.NRGBA{0, 0, 255, 100})

	var raw map[string]json.RawMessage
	toolText(t, callTool(t, s, "image_colors", map[string]interface{}{"path": imgPath}), &raw)

	assert.Equal(t, "null", string(raw["color_data"]))
}

func TestHandleToolsCall_ImageExif(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 5, 5, color.NRGBA{1, 2, 3, 255})

	var raw map[string]json.RawMessage
	toolText(t, callTool(t, s, "image_exif", map[string]interface{}{"path": imgPath}), &raw)

	assert.Equal(t, "{}", string(raw["exif_data"]))
	assert.NotContains(t, raw, "color_data", "image_exif should not report color_data")
}

func TestHandleToolsCall_Errors(t *testing.T) {
	imgPath := createTestImageFile(t, 5, 5, color.NRGBA{1, 2, 3, 255})

	tests := []struct {
		name    string
		tool    string
		args    map[string]interface{}
		wantMsg string
	}{
		{"unknown tool", "image_crop", map[string]interface{}{"path": imgPath}, "unknown tool"},
		{"no image", "image_stats", map[string]interface{}{}, "path or url is required"},
		{"path and url", "image_stats", map[string]interface{}{"path": imgPath, "url": "https://h/a.png"}, "mutually exclusive"},
		{"negative dimension", "image_colors", map[string]interface{}{"path": imgPath, "max_dimension": -1}, "max_dimension"},
		{"missing file", "image_exif", map[string]interface{}{"path": "/nonexistent/image.png"}, "not_found"},
		{"bad url scheme", "image_stats", map[string]interface{}{"url": "ftp://h/a.png"}, "unsupported"},
		{"url without fetcher", "image_stats", map[string]interface{}{"url": "https://h/a.png"}, "not enabled"},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			require.NotNil(t, resp.Error, "expected an error response")
			assert.Equal(t, -32000, resp.Error.Code)
			data, _ := resp.Error.Data.(string)
			assert.Contains(t, data, tt.wantMsg)
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})

	require.NotNil(t, resp)
	require.NotNil(t, resp.Error, "expected an error response")
	assert.Equal(t, -32602, resp.Error.Code)
}
