// ABOUTME: MCP tool implementations for sleep analytics.
// ABOUTME: Loads exports into the session and serves overviews, shares and daily series.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/sleepdash/internal/analytics"
	"github.com/harperreed/sleepdash/internal/config"
	"github.com/harperreed/sleepdash/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func (s *Server) registerTools() {
	// load_export
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "load_export",
		Description: "Load sleeps.csv and/or physiological_cycles.csv into the session; reports are available once both are loaded",
	}, s.handleLoadExport)

	// annual_overview
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "annual_overview",
		Description: "Mean RHR, HRV, asleep duration and sleep consistency per calendar year",
	}, s.handleAnnualOverview)

	// monthly_overview
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "monthly_overview",
		Description: "Mean metrics including skin temperature per year-month, optionally limited to a month range",
	}, s.handleMonthlyOverview)

	// weekday_overview
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "weekday_overview",
		Description: "Mean metrics per weekday (Monday first) over an optional date range",
	}, s.handleWeekdayOverview)

	// daily_metrics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "daily_metrics",
		Description: "Per-night duration, night score, consistency, HRV, RHR and skin temperature over a date range",
	}, s.handleDailyMetrics)

	// score_shares
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "score_shares",
		Description: "Counts and shares of Good, Okay and Bad nights per year or year-month",
	}, s.handleScoreShares)

	// clear_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_session",
		Description: "Discard the loaded exports and return the session to idle",
	}, s.handleClearSession)
}

// Tool input/output types

type loadExportInput struct {
	SleepsPath string `json:"sleeps_path,omitempty" jsonschema:"Path to sleeps.csv"`
	CyclesPath string `json:"cycles_path,omitempty" jsonschema:"Path to physiological_cycles.csv"`
}

type loadExportOutput struct {
	SessionID string `json:"session_id"`
	Ready     bool   `json:"ready"`
	Nights    int    `json:"nights"`
	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`
	Message   string `json:"message"`
}

type emptyInput struct{}

type monthRangeInput struct {
	From string `json:"from,omitempty" jsonschema:"First year-month to include (YYYY-MM)"`
	To   string `json:"to,omitempty" jsonschema:"Last year-month to include (YYYY-MM)"`
}

type dateRangeInput struct {
	Start string `json:"start,omitempty" jsonschema:"First date to include (YYYY-MM-DD)"`
	End   string `json:"end,omitempty" jsonschema:"Last date to include (YYYY-MM-DD)"`
}

type dailyInput struct {
	Start string `json:"start,omitempty" jsonschema:"First date to include (YYYY-MM-DD)"`
	End   string `json:"end,omitempty" jsonschema:"Last date to include (YYYY-MM-DD)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max nights to return (default all)"`
}

type scoreSharesInput struct {
	GroupBy string `json:"group_by,omitempty" jsonschema:"Bucket by year or year_month (default year_month)"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// idleResult is returned by report tools before both exports are loaded.
var idleResult = map[string]interface{}{"message": session.ErrIdle.Error()}

// dataset returns the session dataset, or ok=false when the session is idle.
func (s *Server) dataset() (*analytics.Dataset, bool, error) {
	ds, err := s.sess.Dataset()
	if errors.Is(err, session.ErrIdle) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return ds, true, nil
}

// Tool handlers

func (s *Server) handleLoadExport(ctx context.Context, req *mcp.CallToolRequest, input loadExportInput) (*mcp.CallToolResult, loadExportOutput, error) {
	if input.SleepsPath == "" && input.CyclesPath == "" {
		return nil, loadExportOutput{}, errors.New("provide sleeps_path, cycles_path or both")
	}

	var err error
	switch {
	case input.SleepsPath != "" && input.CyclesPath != "":
		err = s.sess.LoadFiles(config.ExpandPath(input.SleepsPath), config.ExpandPath(input.CyclesPath))
	case input.SleepsPath != "":
		err = attachFile(config.ExpandPath(input.SleepsPath), s.sess.AttachSleeps)
	default:
		err = attachFile(config.ExpandPath(input.CyclesPath), s.sess.AttachCycles)
	}
	if err != nil {
		s.log.Warn("load_export failed", zap.Error(err))
		return nil, loadExportOutput{}, fmt.Errorf("failed to load export: %w", err)
	}

	out := loadExportOutput{SessionID: s.sess.ID, Message: "Export attached; waiting for the other file."}
	if !s.sess.Ready() {
		return nil, out, nil
	}
	ds, ok, err := s.dataset()
	if err != nil {
		return nil, loadExportOutput{}, err
	}
	if !ok {
		return nil, out, nil
	}

	days := ds.Days()
	out.Ready = true
	out.Nights = ds.Len()
	if len(days) > 0 {
		out.FirstDate = days[0]
		out.LastDate = days[len(days)-1]
	}
	out.Message = fmt.Sprintf("Loaded %d nights (%s to %s)", out.Nights, out.FirstDate, out.LastDate)
	return nil, out, nil
}

func (s *Server) handleAnnualOverview(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	ds, ok, err := s.dataset()
	if err != nil || !ok {
		return nil, idleResult, err
	}
	return nil, ds.AnnualOverview(), nil
}

func (s *Server) handleMonthlyOverview(ctx context.Context, req *mcp.CallToolRequest, input monthRangeInput) (*mcp.CallToolResult, any, error) {
	if err := analytics.ValidateMonth(input.From); err != nil {
		return nil, nil, err
	}
	if err := analytics.ValidateMonth(input.To); err != nil {
		return nil, nil, err
	}

	ds, ok, err := s.dataset()
	if err != nil || !ok {
		return nil, idleResult, err
	}
	return nil, ds.MonthlyOverview().Between(input.From, input.To), nil
}

func (s *Server) handleWeekdayOverview(ctx context.Context, req *mcp.CallToolRequest, input dateRangeInput) (*mcp.CallToolResult, any, error) {
	ds, ok, err := s.dataset()
	if err != nil || !ok {
		return nil, idleResult, err
	}

	ov, err := ds.WeekdayOverview(input.Start, input.End)
	if err != nil {
		return nil, nil, err
	}
	return nil, ov, nil
}

func (s *Server) handleDailyMetrics(ctx context.Context, req *mcp.CallToolRequest, input dailyInput) (*mcp.CallToolResult, any, error) {
	ds, ok, err := s.dataset()
	if err != nil || !ok {
		return nil, idleResult, err
	}

	rows, err := ds.Daily(input.Start, input.End)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, map[string]interface{}{"message": "No nights in range."}, nil
	}
	if input.Limit > 0 && len(rows) > input.Limit {
		rows = rows[:input.Limit]
	}
	return nil, rows, nil
}

func (s *Server) handleScoreShares(ctx context.Context, req *mcp.CallToolRequest, input scoreSharesInput) (*mcp.CallToolResult, any, error) {
	groupBy := analytics.ByYearMonth
	if input.GroupBy != "" {
		g, err := analytics.ParseGroupBy(input.GroupBy)
		if err != nil {
			return nil, nil, err
		}
		groupBy = g
	}

	ds, ok, err := s.dataset()
	if err != nil || !ok {
		return nil, idleResult, err
	}

	rows, err := ds.ScoreShares(groupBy)
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]interface{}{
		"group_by": groupBy,
		"columns":  analytics.ShareColumns,
		"rows":     rows,
	}, nil
}

func (s *Server) handleClearSession(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	s.sess.Clear()
	return nil, simpleOutput{Message: "Session cleared."}, nil
}

func attachFile(path string, attach func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return attach(f)
}
