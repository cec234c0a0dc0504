// Package tools provides tool execution and MCP (Model Context Protocol) integration.
//
// It is organized into sub-packages:
//   - [github.com/deskwise/ticketrouter/pkg/tools/toolbox] — Tool type and ToolBox registry for registering, listing, and calling tools
//   - [github.com/deskwise/ticketrouter/pkg/tools/mcpserver] — MCP server using the official MCP Go SDK for exposing tools over the MCP protocol
//
// The toolbox sub-package is the foundation layer; mcpserver is a thin
// wrapper around the official SDK (github.com/modelcontextprotocol/go-sdk)
// that serves toolbox tools to external MCP clients.
package tools
