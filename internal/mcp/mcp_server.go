// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names exposed by the server.
const (
	RetrieveFeedTool = "retrieve_feed"
	InsertFeedTool   = "insert_feed"
	DeleteFeedTool   = "delete_feed"
)

// NewMCPServer initializes and configures the feed store MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Feed Store Server",
		"1.0.0",
		server.WithLogging(),
	)

	if baseCfg == nil {
		baseCfg = &contract.Config{}
	}
	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: retrieve_feed ---
	s.AddTool(mcp.NewTool(RetrieveFeedTool,
		mcp.WithDescription("Retrieve the cached feed. The result is found, empty or failure."),
		mcp.WithNumber("timeout_seconds", mcp.Description("How long to wait for the store. Defaults to the server timeout.")),
	), h.handleRetrieveFeed)

	// --- 2. Tool: insert_feed ---
	s.AddTool(mcp.NewTool(InsertFeedTool,
		mcp.WithDescription("Replace the cached feed with the given images."),
		mcp.WithArray("images",
			mcp.Description("Images in order. Each has id (UUID), url, and optional description and location."),
			mcp.Required(),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithString("timestamp", mcp.Description("RFC3339 timestamp of the feed. Defaults to now.")),
		mcp.WithNumber("timeout_seconds", mcp.Description("How long to wait for the store. Defaults to the server timeout.")),
	), h.handleInsertFeed)

	// --- 3. Tool: delete_feed ---
	s.AddTool(mcp.NewTool(DeleteFeedTool,
		mcp.WithDescription("Delete the cached feed. Deleting an empty cache succeeds."),
		mcp.WithNumber("timeout_seconds", mcp.Description("How long to wait for the store. Defaults to the server timeout.")),
	), h.handleDeleteFeed)

	return s
}

// StartMCPServer starts the feed store MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
