// Package domain defines the MCP tools and resources exposed by the
// bridge. Every tool maps one to one onto a dispatch operation: the
// handler encodes its typed input as operation arguments, dispatches,
// and reports failed outcomes as tool errors carrying the outcome kind.
package domain
