// Package insights summarizes store activity for the admin dashboard,
// asking an LLM for commentary and falling back to a template.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"storefront-admin/internal/repository/stats"
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"

	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"

	period = 7 * 24 * time.Hour
)

// Completer runs a single system+prompt completion.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type SalesTrends struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	Trend      string   `json:"trend"`
}

type InventoryInsights struct {
	Summary         string   `json:"summary"`
	Alerts          []string `json:"alerts"`
	Recommendations []string `json:"recommendations"`
}

type ActionItems struct {
	Urgent        []string `json:"urgent"`
	Recommended   []string `json:"recommended"`
	Opportunities []string `json:"opportunities"`
}

type Insights struct {
	SalesTrends SalesTrends       `json:"salesTrends"`
	Inventory   InventoryInsights `json:"inventory"`
	ActionItems ActionItems       `json:"actionItems"`
}

type RawMetrics struct {
	CurrentRevenue   float64 `json:"currentRevenue"`
	PreviousRevenue  float64 `json:"previousRevenue"`
	RevenueChange    string  `json:"revenueChange"`
	OrderCount       int     `json:"orderCount"`
	AvgOrderValue    string  `json:"avgOrderValue"`
	UnfulfilledCount int     `json:"unfulfilledCount"`
	LowStockCount    int     `json:"lowStockCount"`
}

type Response struct {
	Success     bool       `json:"success"`
	Insights    Insights   `json:"insights"`
	RawMetrics  RawMetrics `json:"rawMetrics"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Source      string     `json:"source"`
}

type Service struct {
	stats  stats.Repository
	llm    Completer
	now    func() time.Time
	logger *log.Logger
}

func New(repo stats.Repository, llm Completer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{stats: repo, llm: llm, now: time.Now, logger: logger}
}

// Generate runs the store queries in parallel and builds the insights. Only
// query failures are returned; LLM failures switch to the fallback.
func (s *Service) Generate(ctx context.Context) (*Response, error) {
	now := s.now().UTC()
	data, err := s.load(ctx, now)
	if err != nil {
		s.logger.Printf("insights: load error=%v", err)
		return nil, err
	}
	m := Summarize(data, now)

	resp := &Response{
		Success:     true,
		RawMetrics:  rawMetrics(m),
		GeneratedAt: now,
	}
	insights, err := s.ask(ctx, m)
	if err != nil {
		s.logger.Printf("insights: llm unavailable, using fallback error=%v", err)
		resp.Insights = Fallback(m)
		resp.Source = SourceFallback
		return resp, nil
	}
	resp.Insights = insights
	resp.Source = SourceAI
	return resp, nil
}

func (s *Service) load(ctx context.Context, now time.Time) (Data, error) {
	currentStart := now.Add(-period)
	previousStart := now.Add(-2 * period)

	var d Data
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.RecentOrders, err = s.stats.OrdersSince(ctx, currentStart)
		return err
	})
	g.Go(func() (err error) {
		d.StatusDistribution, err = s.stats.StatusDistribution(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.SaleLines, err = s.stats.SaleLines(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Inventory, err = s.stats.Inventory(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Unfulfilled, err = s.stats.Unfulfilled(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Revenue, err = s.stats.RevenueByPeriod(ctx, currentStart, previousStart)
		return err
	})
	return d, g.Wait()
}

func (s *Service) ask(ctx context.Context, m Metrics) (Insights, error) {
	if s.llm == nil {
		return Insights{}, errors.New("no llm configured")
	}
	summary, err := json.MarshalIndent(promptData(m), "", "  ")
	if err != nil {
		return Insights{}, err
	}
	prompt := fmt.Sprintf("Analyze this e-commerce store data and provide insights:\n\n%s\n\nGenerate insights in the required JSON format.", summary)
	text, err := s.llm.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return Insights{}, err
	}
	return ParseInsights(text)
}

// ParseInsights decodes the span from the first "{" to the last "}" of a reply.
func ParseInsights(text string) (Insights, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Insights{}, errors.New("no JSON found in response")
	}
	var out Insights
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return Insights{}, fmt.Errorf("failed to parse AI response: %w", err)
	}
	normalize(&out)
	return out, nil
}

func normalize(in *Insights) {
	for _, list := range []*[]string{
		&in.SalesTrends.Highlights,
		&in.Inventory.Alerts, &in.Inventory.Recommendations,
		&in.ActionItems.Urgent, &in.ActionItems.Recommended, &in.ActionItems.Opportunities,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
	switch in.SalesTrends.Trend {
	case TrendUp, TrendDown, TrendStable:
	default:
		in.SalesTrends.Trend = TrendStable
	}
}

func rawMetrics(m Metrics) RawMetrics {
	return RawMetrics{
		CurrentRevenue:   m.CurrentRevenue,
		PreviousRevenue:  m.PreviousRevenue,
		RevenueChange:    fixed(m.RevenueChange, 1),
		OrderCount:       m.CurrentOrders,
		AvgOrderValue:    fixed(m.AvgOrderValue, 2),
		UnfulfilledCount: len(m.Unfulfilled),
		LowStockCount:    m.LowStockCount,
	}
}

// fixed formats like Number.prototype.toFixed for the magnitudes seen here.
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
