// Package yahoo implements the price-data provider against the public
// Yahoo Finance endpoints: the v8 chart API for price history, the v10
// quoteSummary API for fundamentals and the v1 search API for headlines.
package yahoo

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tradesage/internal/api"
	"tradesage/internal/logger"
	"tradesage/internal/trace"
	"tradesage/internal/types"
)

const (
	defaultAPIBase = "https://query1.finance.yahoo.com"
	defaultWebBase = "https://finance.yahoo.com"

	summaryModules = "price,summaryProfile,summaryDetail,financialData"
)

// Client talks to Yahoo Finance. It is stateless; one instance serves any
// number of sequential requests.
type Client struct {
	http    *api.Client
	apiBase string
	webBase string
}

// Option configures the client.
type Option func(*Client)

// WithAPIBase overrides the query API base URL (used in tests).
func WithAPIBase(base string) Option {
	return func(c *Client) {
		c.apiBase = base
	}
}

// WithWebBase overrides the quote-page base URL (used in tests).
func WithWebBase(base string) Option {
	return func(c *Client) {
		c.webBase = base
	}
}

// New creates a Yahoo Finance client.
func New(opts ...Option) *Client {
	c := &Client{
		http:    api.NewClient(api.WithTimeout(30 * time.Second)),
		apiBase: defaultAPIBase,
		webBase: defaultWebBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse is the v8 chart API shape. Null quote entries (holidays,
// suspended sessions) come through as JSON nulls, hence the pointer slices.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches daily bars for the given range (e.g. "6mo"). A symbol the
// provider does not know yields an empty series and no error, so callers can
// treat "unknown symbol" separately from transport failures.
func (c *Client) History(ctx context.Context, symbol, period string) ([]types.Bar, error) {
	ctx, span := trace.StartSpan(ctx, "yahoo-chart")
	defer span.End()

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		c.apiBase, url.PathEscape(symbol), url.QueryEscape(period))

	resp, err := c.http.GET(ctx, u, api.YahooFinanceHeaders())
	if err != nil {
		// Yahoo answers 404 for tickers it cannot resolve.
		if api.IsStatus(err, http.StatusNotFound) {
			logger.Debug(ctx, "Yahoo chart: symbol not found", "symbol", symbol)
			return nil, nil
		}
		return nil, fmt.Errorf("yahoo chart: %w", err)
	}

	var chart chartResponse
	if err := resp.ParseJSON(&chart); err != nil {
		return nil, fmt.Errorf("yahoo chart: %w", err)
	}
	if chart.Chart.Error != nil {
		logger.Debug(ctx, "Yahoo chart: provider error", "symbol", symbol, "code", chart.Chart.Error.Code)
		return nil, nil
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]types.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		var volume float64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		bars = append(bars, types.Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Close:  *quote.Close[i],
			Volume: volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// rawValue is Yahoo's {"raw": n, "fmt": "..."} number wrapper. Absent fields
// come through as null objects, which leaves Raw nil.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				LongName  *string  `json:"longName"`
				MarketCap rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryProfile *struct {
				LongBusinessSummary *string `json:"longBusinessSummary"`
			} `json:"summaryProfile"`
			SummaryDetail *struct {
				TrailingPE rawValue `json:"trailingPE"`
				ForwardPE  rawValue `json:"forwardPE"`
			} `json:"summaryDetail"`
			FinancialData *struct {
				ReturnOnEquity   rawValue `json:"returnOnEquity"`
				DebtToEquity     rawValue `json:"debtToEquity"`
				FreeCashflow     rawValue `json:"freeCashflow"`
				GrossMargins     rawValue `json:"grossMargins"`
				OperatingMargins rawValue `json:"operatingMargins"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Info fetches the quoteSummary record and projects it into the fixed
// fundamentals field set. Fields the provider omits stay nil. When the
// quoteSummary API rejects the call (it increasingly requires cookie/crumb
// auth) the client falls back to scraping just the display name off the
// public quote page; numeric fields stay absent in that case.
func (c *Client) Info(ctx context.Context, symbol string) (types.Fundamentals, error) {
	ctx, span := trace.StartSpan(ctx, "yahoo-quote-summary")
	defer span.End()

	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.apiBase, url.PathEscape(symbol), summaryModules)

	resp, err := c.http.GET(ctx, u, api.YahooFinanceHeaders())
	if err != nil {
		logger.Warn(ctx, "Yahoo quoteSummary failed, scraping quote page for name", "symbol", symbol, "error", err)
		if name := c.scrapeName(ctx, symbol); name != "" {
			return types.Fundamentals{Name: &name}, nil
		}
		return types.Fundamentals{}, fmt.Errorf("yahoo quoteSummary: %w", err)
	}

	var summary quoteSummaryResponse
	if err := resp.ParseJSON(&summary); err != nil {
		return types.Fundamentals{}, fmt.Errorf("yahoo quoteSummary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return types.Fundamentals{}, fmt.Errorf("yahoo quoteSummary: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return types.Fundamentals{}, nil
	}

	r := summary.QuoteSummary.Result[0]
	var f types.Fundamentals
	if r.Price != nil {
		f.Name = r.Price.LongName
		f.MarketCap = r.Price.MarketCap.Raw
	}
	if r.SummaryProfile != nil {
		f.BusinessSummary = r.SummaryProfile.LongBusinessSummary
	}
	if r.SummaryDetail != nil {
		f.TrailingPE = r.SummaryDetail.TrailingPE.Raw
		f.ForwardPE = r.SummaryDetail.ForwardPE.Raw
	}
	if r.FinancialData != nil {
		f.ReturnOnEquity = r.FinancialData.ReturnOnEquity.Raw
		f.DebtToEquity = r.FinancialData.DebtToEquity.Raw
		f.FreeCashflow = r.FinancialData.FreeCashflow.Raw
		f.GrossMargins = r.FinancialData.GrossMargins.Raw
		f.OperatingMargins = r.FinancialData.OperatingMargins.Raw
	}
	return f, nil
}

// scrapeName extracts the instrument's display name from the quote page
// <title>, which reads like "Apple Inc. (AAPL) Stock Price ...".
func (c *Client) scrapeName(ctx context.Context, symbol string) string {
	u := fmt.Sprintf("%s/quote/%s", c.webBase, url.PathEscape(symbol))

	resp, err := c.http.GET(ctx, u, api.BrowserHeaders())
	if err != nil {
		logger.Debug(ctx, "Quote page scrape failed", "symbol", symbol, "error", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}
	if idx := strings.Index(title, "("+symbol+")"); idx > 0 {
		return strings.TrimSpace(title[:idx])
	}
	return ""
}

type searchResponse struct {
	News []struct {
		Title     string `json:"title"`
		Publisher string `json:"publisher"`
	} `json:"news"`
}

// News returns up to limit items from Yahoo's native headline feed.
func (c *Client) News(ctx context.Context, symbol string, limit int) ([]types.Headline, error) {
	ctx, span := trace.StartSpan(ctx, "yahoo-news")
	defer span.End()

	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=0&newsCount=%d",
		c.apiBase, url.QueryEscape(symbol), limit)

	resp, err := c.http.GET(ctx, u, api.YahooFinanceHeaders())
	if err != nil {
		return nil, fmt.Errorf("yahoo news: %w", err)
	}

	var search searchResponse
	if err := resp.ParseJSON(&search); err != nil {
		return nil, fmt.Errorf("yahoo news: %w", err)
	}

	headlines := make([]types.Headline, 0, limit)
	for _, item := range search.News {
		if len(headlines) >= limit {
			break
		}
		headlines = append(headlines, types.Headline{Title: item.Title, Publisher: item.Publisher})
	}
	return headlines, nil
}
