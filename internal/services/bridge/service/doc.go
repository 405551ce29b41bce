// Package service runs the MCP server that fronts the dispatch router.
// It registers every bridge tool and resource against one mcp.Server and
// serves it over stdio for local clients or HTTP for remote ones.
package service
