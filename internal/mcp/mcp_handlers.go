package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/feedstore/internal/codec"
	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/feedstore"
	"github.com/huangsam/feedstore/internal/outwriter"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig copies the base config and applies per-call overrides.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if s := request.GetInt("timeout_seconds", 0); s > 0 {
		cfg.Timeout = time.Duration(s) * time.Second
	}
	return cfg
}

// withTimeout bounds how long a handler waits for a completion.
func withTimeout(ctx context.Context, cfg *contract.Config) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return context.WithTimeout(ctx, contract.DefaultTimeout)
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}

func (h *toolHandler) store() (contract.FeedStore, error) {
	if h.mgr == nil {
		return nil, fmt.Errorf("feed store is not initialized")
	}
	store := h.mgr.GetFeedStore()
	if store == nil {
		return nil, fmt.Errorf("feed store is not initialized")
	}
	return store, nil
}

func (h *toolHandler) handleRetrieveFeed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	store, err := h.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()
	result, err := feedstore.Retrieve(ctx, store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieve did not complete: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := outwriter.WriteRetrievalJSON(&buf, result, cfg.CacheKey); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if result.IsFailure() {
		return mcp.NewToolResultError(buf.String()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (h *toolHandler) handleInsertFeed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	raw, ok := request.GetArguments()["images"]
	if !ok {
		return mcp.NewToolResultError("images is required"), nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid images: %v", err)), nil
	}
	images, err := codec.DecodeImages(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid images: %v", err)), nil
	}

	ts := time.Now()
	if s := request.GetString("timestamp", ""); s != "" {
		ts, err = time.Parse(contract.DateTimeFormat, s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid timestamp (expected %s): %v", contract.DateTimeFormat, err)), nil
		}
	}

	store, err := h.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()
	if err := feedstore.Insert(ctx, store, images, ts); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("insert failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Inserted %d images into %s", len(images), cfg.CacheKey)), nil
}

func (h *toolHandler) handleDeleteFeed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	store, err := h.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()
	if err := feedstore.Delete(ctx, store); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted cached feed %s", cfg.CacheKey)), nil
}
