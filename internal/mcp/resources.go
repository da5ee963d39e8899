// ABOUTME: MCP resource implementations for sleep analytics.
// ABOUTME: Provides sleepdash://annual, sleepdash://monthly, and sleepdash://shares resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/sleepdash/internal/analytics"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	annualURI  = "sleepdash://annual"
	monthlyURI = "sleepdash://monthly"
	sharesURI  = "sleepdash://shares"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         annualURI,
		Name:        "Annual Sleep Overview",
		Description: "Mean metrics per calendar year for the loaded exports",
		MIMEType:    "application/json",
	}, s.handleAnnualResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         monthlyURI,
		Name:        "Monthly Sleep Overview",
		Description: "Mean metrics per year-month for the loaded exports",
		MIMEType:    "application/json",
	}, s.handleMonthlyResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         sharesURI,
		Name:        "Night Score Shares",
		Description: "Shares of Good, Okay and Bad nights per year and per year-month",
		MIMEType:    "application/json",
	}, s.handleSharesResource)
}

// Resource handlers

func (s *Server) handleAnnualResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ds, ok, err := s.dataset()
	if err != nil {
		return nil, err
	}
	if !ok {
		return jsonResource(annualURI, idleResult)
	}
	return jsonResource(annualURI, ds.AnnualOverview())
}

func (s *Server) handleMonthlyResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ds, ok, err := s.dataset()
	if err != nil {
		return nil, err
	}
	if !ok {
		return jsonResource(monthlyURI, idleResult)
	}
	return jsonResource(monthlyURI, ds.MonthlyOverview())
}

func (s *Server) handleSharesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ds, ok, err := s.dataset()
	if err != nil {
		return nil, err
	}
	if !ok {
		return jsonResource(sharesURI, idleResult)
	}

	byYear, err := ds.ScoreShares(analytics.ByYear)
	if err != nil {
		return nil, err
	}
	byMonth, err := ds.ScoreShares(analytics.ByYearMonth)
	if err != nil {
		return nil, err
	}

	return jsonResource(sharesURI, map[string]interface{}{
		"columns":  analytics.ShareColumns,
		"by_year":  byYear,
		"by_month": byMonth,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
