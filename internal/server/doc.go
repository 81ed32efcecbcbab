// Package server implements an MCP (Model Context Protocol) server that
// exposes the image stats pipeline as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Every tool takes an image as either "path" (local file) or "url"
// (http, https or az://container/blob), plus optional "method" and
// "max_dimension" overrides:
//   - image_stats: exif_data and color_data together
//   - image_colors: average and dominant color only
//   - image_exif: sanitized EXIF metadata only
//
// # Image Caching
//
// Images given by path are decoded once and cached by path. The cache holds
// the most recent source.DefaultCacheEntries images and drops the oldest when
// full. URLs are fetched on every call.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Logs go to stderr so stdout carries only protocol messages.
package server
