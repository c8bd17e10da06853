// Package server implements the MCP (Model Context Protocol) server for
// province map tools.
//
// This package provides a JSON-RPC 2.0 server that exposes province
// detection and the province color codec through the MCP protocol.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//
// Detection:
//   - province_detect: Label every province and report diagnostics
//   - province_get: Look up one province by label
//   - province_at: Look up the province covering a pixel
//   - province_preview: Render one province as PNG
//
// Color Codec:
//   - province_decode_color: Color to province attributes
//   - province_encode_color: Province attributes to color
//
// # Caching
//
// Decoded images and their pixel buffers are cached by path. Complete
// detection runs made with the configured options are cached as well, so
// province_get, province_at and province_preview reuse them. A
// province_detect call that overrides any detection option returns its
// result without replacing the cached run. Interrupted runs are never
// cached.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(cfg, logger.L())
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
