package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1756684800, 1756771200, 1756857600],
      "indicators": {
        "quote": [{
          "close": [209.1, null, 210.5],
          "volume": [52000000, null, 48000000]
        }]
      }
    }],
    "error": null
  }
}`

func TestHistoryParsesChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("range") != "6mo" {
			t.Errorf("expected range=6mo, got %s", r.URL.Query().Get("range"))
		}
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	c := New(WithAPIBase(srv.URL))
	bars, err := c.History(context.Background(), "AAPL", "6mo")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	// the null bar is skipped
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Close != 209.1 || bars[1].Close != 210.5 {
		t.Errorf("unexpected closes: %v", bars)
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Error("expected chronological order")
	}
	if bars[1].Volume != 48000000 {
		t.Errorf("expected volume 48000000, got %f", bars[1].Volume)
	}
}

func TestHistoryUnknownSymbolIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(WithAPIBase(srv.URL))
	bars, err := c.History(context.Background(), "ZZZZNOTASYMBOL", "6mo")
	if err != nil {
		t.Fatalf("unknown symbol must not be an error, got %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected empty series, got %d bars", len(bars))
	}
}

func TestHistoryProviderErrorIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Bad Request","description":"invalid range"}}}`))
	}))
	defer srv.Close()

	c := New(WithAPIBase(srv.URL))
	bars, err := c.History(context.Background(), "AAPL", "6mo")
	if err != nil {
		t.Fatalf("provider-level error must degrade to empty, got %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected empty series, got %d bars", len(bars))
	}
}

const summaryBody = `{
  "quoteSummary": {
    "result": [{
      "price": {
        "longName": "Apple Inc.",
        "marketCap": {"raw": 3200000000000, "fmt": "3.2T"}
      },
      "summaryProfile": {
        "longBusinessSummary": "Apple designs smartphones."
      },
      "summaryDetail": {
        "trailingPE": {"raw": 32.1, "fmt": "32.10"},
        "forwardPE": {}
      },
      "financialData": {
        "returnOnEquity": {"raw": 1.47, "fmt": "147%"},
        "debtToEquity": {},
        "freeCashflow": {"raw": 98000000000, "fmt": "98B"},
        "grossMargins": {"raw": 0.46, "fmt": "46%"},
        "operatingMargins": {}
      }
    }],
    "error": null
  }
}`

func TestInfoProjectsFundamentals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v10/finance/quoteSummary/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(summaryBody))
	}))
	defer srv.Close()

	c := New(WithAPIBase(srv.URL))
	f, err := c.Info(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if f.Name == nil || *f.Name != "Apple Inc." {
		t.Error("expected long name projected")
	}
	if f.BusinessSummary == nil || *f.BusinessSummary != "Apple designs smartphones." {
		t.Error("expected business summary projected")
	}
	if f.MarketCap == nil || *f.MarketCap != 3200000000000 {
		t.Error("expected raw market cap projected")
	}
	if f.TrailingPE == nil || *f.TrailingPE != 32.1 {
		t.Error("expected trailing PE projected")
	}
	// fields present as empty objects must stay absent
	if f.ForwardPE != nil {
		t.Error("expected forward PE absent, not zero")
	}
	if f.DebtToEquity != nil {
		t.Error("expected debt/equity absent, not zero")
	}
	if f.OperatingMargins != nil {
		t.Error("expected operating margins absent, not zero")
	}
}

func TestInfoScrapesNameWhenSummaryRejected(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer apiSrv.Close()

	webSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`<html><head><title>Apple Inc. (AAPL) Stock Price, News &amp; Quote</title></head><body></body></html>`))
	}))
	defer webSrv.Close()

	c := New(WithAPIBase(apiSrv.URL), WithWebBase(webSrv.URL))
	f, err := c.Info(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("expected scrape fallback, got %v", err)
	}
	if f.Name == nil || *f.Name != "Apple Inc." {
		t.Errorf("expected scraped name, got %v", f.Name)
	}
	if f.MarketCap != nil {
		t.Error("expected numeric fields absent in scrape fallback")
	}
}

func TestInfoFailsWhenBothPathsFail(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer apiSrv.Close()

	webSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer webSrv.Close()

	c := New(WithAPIBase(apiSrv.URL), WithWebBase(webSrv.URL))
	if _, err := c.Info(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error when both fundamentals paths fail")
	}
}

func TestNewsParsesAndLimits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"news":[
			{"title":"One","publisher":"Reuters"},
			{"title":"Two","publisher":"Bloomberg"},
			{"title":"Three","publisher":"WSJ"}
		]}`))
	}))
	defer srv.Close()

	c := New(WithAPIBase(srv.URL))
	items, err := c.News(context.Background(), "AAPL", 2)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(items))
	}
	if items[0].Title != "One" || items[0].Publisher != "Reuters" {
		t.Errorf("unexpected first headline: %+v", items[0])
	}
}
