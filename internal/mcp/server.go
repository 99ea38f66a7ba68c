package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/storefront/internal/search"
	"github.com/Aman-CERP/storefront/internal/storefront"
	"github.com/Aman-CERP/storefront/pkg/version"
)

const (
	serverName = "storefront"

	defaultLimit = 10
	maxLimit     = 50
)

// Server is the MCP server for the storefront.
// It exposes catalog search and client state to AI clients.
type Server struct {
	mcp     *mcp.Server
	session *storefront.Session
	logger  *slog.Logger

	mu sync.RWMutex
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

var tools = []ToolInfo{
	{
		Name:        "search_catalog",
		Description: "Search the phone catalog. Every word of the query must appear in the listing name, brand, variants, colors or keywords; Arabic and Latin text are matched after normalization. Combine with brand and available_only filters. An empty query browses the filtered catalog.",
	},
	{
		Name:        "get_item",
		Description: "Get the full listing for a catalog id: variants with prices, colors, specs, pros and cons.",
	},
	{
		Name:        "list_brands",
		Description: "List the distinct brands in the catalog.",
	},
	{
		Name:        "storage_status",
		Description: "Report whether durable storage is writable, how many favorites are persisted and which theme is stored.",
	},
	{
		Name:        "toggle_favorite",
		Description: "Add a listing to the user's favorites, or remove it if already there. The change is persisted immediately.",
	},
}

// NewServer creates a new MCP server over sess.
func NewServer(sess *storefront.Session) (*Server, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}

	s := &Server{
		session: sess,
		logger:  slog.Default(),
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return serverName, version.Version
}

// Listings returns the number of catalog listings served.
func (s *Server) Listings() int {
	return s.session.Catalog.Len()
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return append([]ToolInfo(nil), tools...)
}

// CallTool invokes a tool by name with already-decoded input.
func (s *Server) CallTool(ctx context.Context, name string, input any) (any, error) {
	switch name {
	case "search_catalog":
		in, _ := input.(SearchCatalogInput)
		return s.searchCatalog(ctx, in)
	case "get_item":
		in, _ := input.(GetItemInput)
		return s.getItem(in)
	case "list_brands":
		return s.listBrands(), nil
	case "storage_status":
		return s.storageStatus(), nil
	case "toggle_favorite":
		in, _ := input.(ToggleFavoriteInput)
		return s.toggleFavorite(in)
	default:
		return nil, NewMethodNotFoundError(name)
	}
}

func (s *Server) registerTools() {
	s.logger.Debug("mcp_tools_registering")

	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[0].Name, Description: tools[0].Description}, s.mcpSearchCatalogHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[1].Name, Description: tools[1].Description}, s.mcpGetItemHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[2].Name, Description: tools[2].Description}, s.mcpListBrandsHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[3].Name, Description: tools[3].Description}, s.mcpStorageStatusHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[4].Name, Description: tools[4].Description}, s.mcpToggleFavoriteHandler)

	s.logger.Info("mcp_tools_registered", slog.Int("count", len(tools)))
}

func (s *Server) searchCatalog(ctx context.Context, in SearchCatalogInput) (SearchCatalogOutput, error) {
	start := time.Now()
	requestID := generateRequestID()

	resp, err := s.session.Query(ctx, search.Request{
		Query:         in.Query,
		Brand:         in.Brand,
		AvailableOnly: in.AvailableOnly,
		Limit:         clampLimit(in.Limit, defaultLimit, 1, maxLimit),
		Browse:        strings.TrimSpace(in.Query) == "",
	})
	if err != nil {
		s.logger.Error("search_catalog_failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return SearchCatalogOutput{}, MapError(err)
	}

	out := SearchCatalogOutput{
		Results: make([]ItemSummary, 0, len(resp.Items)),
		Total:   resp.Total,
	}
	for _, it := range resp.Items {
		out.Results = append(out.Results, toSummary(it, in.Query, s.session.Favorites.IsFavorite(it.ID)))
	}

	s.logger.Info("search_catalog_complete",
		slog.String("request_id", requestID),
		slog.String("query", in.Query),
		slog.Int("total", out.Total),
		slog.Duration("duration", time.Since(start)))
	return out, nil
}

func (s *Server) getItem(in GetItemInput) (ItemDetail, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return ItemDetail{}, NewInvalidParamsError("id parameter is required")
	}
	it, ok := s.session.Catalog.ByID(id)
	if !ok {
		return ItemDetail{}, &MCPError{Code: ErrCodeItemNotFound, Message: fmt.Sprintf("item %q not found", id)}
	}
	return toDetail(it, s.session.Favorites.IsFavorite(id)), nil
}

func (s *Server) listBrands() ListBrandsOutput {
	return ListBrandsOutput{Brands: s.session.Catalog.Brands()}
}

func (s *Server) storageStatus() StorageStatusOutput {
	snap := s.session.Probe.Check()
	out := StorageStatusOutput{
		Writable:       snap.Writable,
		FavoritesCount: snap.FavoritesCount,
		Theme:          snap.Theme.String(),
		Backend:        s.session.Config.Storage.Backend,
	}
	if err := s.session.Degraded(); err != nil {
		out.Degraded = err.Error()
	}
	return out
}

func (s *Server) toggleFavorite(in ToggleFavoriteInput) (ToggleFavoriteOutput, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return ToggleFavoriteOutput{}, NewInvalidParamsError("id parameter is required")
	}
	if _, ok := s.session.Catalog.ByID(id); !ok {
		return ToggleFavoriteOutput{}, &MCPError{Code: ErrCodeItemNotFound, Message: fmt.Sprintf("item %q not found", id)}
	}

	s.mu.Lock()
	fav := s.session.Favorites.Toggle(id)
	count := s.session.Favorites.Count()
	s.mu.Unlock()

	s.logger.Info("favorite_toggled", slog.String("id", id), slog.Bool("favorite", fav))
	return ToggleFavoriteOutput{ID: id, Favorite: fav, Count: count}, nil
}

func (s *Server) mcpSearchCatalogHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchCatalogInput) (
	*mcp.CallToolResult,
	SearchCatalogOutput,
	error,
) {
	out, err := s.searchCatalog(ctx, input)
	if err != nil {
		return nil, SearchCatalogOutput{}, err
	}
	return textResult(FormatSearchResults(input.Query, out)), out, nil
}

func (s *Server) mcpGetItemHandler(_ context.Context, _ *mcp.CallToolRequest, input GetItemInput) (
	*mcp.CallToolResult,
	ItemDetail,
	error,
) {
	out, err := s.getItem(input)
	if err != nil {
		return nil, ItemDetail{}, err
	}
	return textResult(FormatItem(out)), out, nil
}

func (s *Server) mcpListBrandsHandler(_ context.Context, _ *mcp.CallToolRequest, _ ListBrandsInput) (
	*mcp.CallToolResult,
	ListBrandsOutput,
	error,
) {
	return nil, s.listBrands(), nil
}

func (s *Server) mcpStorageStatusHandler(_ context.Context, _ *mcp.CallToolRequest, _ StorageStatusInput) (
	*mcp.CallToolResult,
	StorageStatusOutput,
	error,
) {
	return nil, s.storageStatus(), nil
}

func (s *Server) mcpToggleFavoriteHandler(_ context.Context, _ *mcp.CallToolRequest, input ToggleFavoriteInput) (
	*mcp.CallToolResult,
	ToggleFavoriteOutput,
	error,
) {
	out, err := s.toggleFavorite(input)
	if err != nil {
		return nil, ToggleFavoriteOutput{}, err
	}
	return nil, out, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// Serve starts the server with the specified transport.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("mcp_server_starting", slog.String("transport", transport))

	switch transport {
	case "stdio", "":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("mcp_server_stopped", slog.String("error", err.Error()))
		} else {
			s.logger.Info("mcp_server_stopped")
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	// The MCP server stops when its context is canceled
	return nil
}

// generateRequestID creates a short unique request ID for log correlation.
func generateRequestID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
