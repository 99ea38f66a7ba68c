package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	catalogURI      = "storefront://catalog"
	itemURIPrefix   = "storefront://items/"
	queryMetricsURI = "storefront://query_metrics"
	jsonMIME        = "application/json"
)

// registerResources registers the catalog, one resource per listing and
// the session's query metrics.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        "catalog",
		URI:         catalogURI,
		Description: fmt.Sprintf("All %d listings", s.session.Catalog.Len()),
		MIMEType:    jsonMIME,
	}, s.readCatalog)

	for _, it := range s.session.Catalog.All() {
		s.mcp.AddResource(&mcp.Resource{
			Name:        it.ID,
			URI:         itemURIPrefix + it.ID,
			Description: fmt.Sprintf("%s (%s)", it.Name, it.Brand),
			MIMEType:    jsonMIME,
		}, s.readItem)
	}

	s.mcp.AddResource(&mcp.Resource{
		Name:        "query_metrics",
		URI:         queryMetricsURI,
		Description: "Search statistics for this session: top terms, zero-result queries, latency",
		MIMEType:    jsonMIME,
	}, s.readQueryMetrics)

	s.logger.Debug("mcp_resources_registered", "count", s.session.Catalog.Len()+2)
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	switch {
	case uri == catalogURI:
		return s.catalogResult()
	case uri == queryMetricsURI:
		return jsonResult(uri, s.session.Metrics.Snapshot())
	case strings.HasPrefix(uri, itemURIPrefix):
		return s.itemResult(uri)
	default:
		return nil, NewResourceNotFoundError(uri)
	}
}

func (s *Server) readCatalog(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return s.catalogResult()
}

func (s *Server) readItem(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return s.itemResult(req.Params.URI)
}

func (s *Server) readQueryMetrics(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResult(queryMetricsURI, s.session.Metrics.Snapshot())
}

func (s *Server) catalogResult() (*mcp.ReadResourceResult, error) {
	items := s.session.Catalog.All()
	out := make([]ItemSummary, 0, len(items))
	for _, it := range items {
		out = append(out, toSummary(it, "", s.session.Favorites.IsFavorite(it.ID)))
	}
	return jsonResult(catalogURI, out)
}

func (s *Server) itemResult(uri string) (*mcp.ReadResourceResult, error) {
	id := strings.TrimPrefix(uri, itemURIPrefix)
	it, ok := s.session.Catalog.ByID(id)
	if !ok {
		return nil, NewResourceNotFoundError(uri)
	}
	return jsonResult(uri, toDetail(it, s.session.Favorites.IsFavorite(id)))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, MapError(err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: jsonMIME,
				Text:     string(content),
			},
		},
	}, nil
}
