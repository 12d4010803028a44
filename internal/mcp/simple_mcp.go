package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"litfed-backend/internal/models"
	"litfed-backend/internal/services"
)

// SearchServer exposes the federated literature search pipeline as a single
// Model Context Protocol tool.
type SearchServer struct {
	server  *server.MCPServer
	service services.SearchServiceInterface
	logger  *slog.Logger
}

// NewSearchServer creates an MCP server exposing search_literature.
func NewSearchServer(service services.SearchServiceInterface, logger *slog.Logger) *SearchServer {
	mcpServer := server.NewMCPServer(
		"litfed backend",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &SearchServer{
		server:  mcpServer,
		service: service,
		logger:  logger,
	}

	s.registerTools()
	return s
}

func (s *SearchServer) registerTools() {
	searchTool := mcp.NewTool("search_literature",
		mcp.WithDescription("Run a federated search across academic databases, citation indexes, preprint servers, and web search"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural-language or boolean search query")),
		mcp.WithNumber("max_per_source", mcp.Description("Maximum records to pull per source (default 100)")),
		mcp.WithBoolean("expand_citations", mcp.Description("Follow citation links from initial results")),
		mcp.WithBoolean("include_preprints", mcp.Description("Include preprint servers such as arXiv and bioRxiv")),
		mcp.WithNumber("min_reliability", mcp.Description("Minimum source reliability score, 0 to 1")),
	)
	s.server.AddTool(searchTool, s.handleSearch)

	s.logger.Info("registered MCP tool: search_literature")
}

func (s *SearchServer) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	query, ok := argsMap["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query parameter required"), nil
	}

	opts := models.DefaultSearchOptions()
	if v, ok := argsMap["max_per_source"].(float64); ok && v > 0 {
		opts.MaxPerSource = int(v)
	}
	if v, ok := argsMap["expand_citations"].(bool); ok {
		opts.ExpandCitations = v
	}
	if v, ok := argsMap["include_preprints"].(bool); ok {
		opts.IncludePreprints = v
	}
	if v, ok := argsMap["min_reliability"].(float64); ok {
		opts.MinReliability = v
	}

	searchReq := &services.SearchRequest{
		RequestID: uuid.New().String(),
		Query:     query,
		Options:   opts,
	}

	result, err := s.service.Search(ctx, searchReq)
	if err != nil {
		s.logger.Error("MCP search failed", slog.String("error", err.Error()))
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	s.logger.Info("MCP search completed",
		slog.String("query", query),
		slog.Int("results", len(result.Records)))

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// ServeStdio starts the MCP server via stdio.
func (s *SearchServer) ServeStdio() error {
	s.logger.Info("starting MCP server via stdio")
	return server.ServeStdio(s.server)
}

// GetServer returns the underlying mcp-go server.
func (s *SearchServer) GetServer() *server.MCPServer {
	return s.server
}
