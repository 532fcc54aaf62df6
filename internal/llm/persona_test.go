package llm

import (
	"strings"
	"testing"

	"tradesage/internal/types"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

func TestSystemInstructionSections(t *testing.T) {
	instruction := SystemInstruction()

	sections := []string{
		"**1. The Business & The Moat**",
		"**2. Mr. Market & Current Price**",
		"**3. The Verdict (What would Warren do?)**",
		"**4. Risks & Warnings**",
		"**5. A Final Thought**",
	}
	for _, s := range sections {
		if !strings.Contains(instruction, s) {
			t.Errorf("expected section %q in instruction", s)
		}
	}

	if !strings.Contains(instruction, "Never lose money") {
		t.Error("expected investing principles inlined in instruction")
	}
	if !strings.Contains(instruction, "Do not hallucinate data") {
		t.Error("expected grounding note in instruction")
	}
}

func TestBuildUserContentRendersRecord(t *testing.T) {
	record := &types.MarketRecord{
		Symbol:        "AAPL",
		Name:          "Apple Inc.",
		CurrentPrice:  210.52,
		RecentHistory: "Date         Close  Volume",
		Context:       "--- Web Search Results ---\nApple news.",
		Fundamentals: types.Fundamentals{
			BusinessSummary: strPtr("Apple designs smartphones."),
			MarketCap:       f64Ptr(3200000000000),
			TrailingPE:      f64Ptr(32.1),
		},
	}

	content := BuildUserContent(record)

	if !strings.Contains(content, "Apple Inc. (AAPL)") {
		t.Error("expected asset line with name and symbol")
	}
	if !strings.Contains(content, "210.52") {
		t.Error("expected current price rendered")
	}
	if !strings.Contains(content, "Apple designs smartphones.") {
		t.Error("expected business summary rendered")
	}
	if !strings.Contains(content, "3,200,000,000,000") {
		t.Error("expected market cap rendered with thousands separators")
	}
	if !strings.Contains(content, "32.1") {
		t.Error("expected P/E rendered")
	}
	if !strings.Contains(content, record.Context) {
		t.Error("expected context block rendered verbatim")
	}
	if !strings.Contains(content, record.RecentHistory) {
		t.Error("expected price table rendered verbatim")
	}
}

func TestBuildUserContentAbsentFundamentals(t *testing.T) {
	record := &types.MarketRecord{
		Symbol:       "^NSEI",
		Name:         "^NSEI",
		CurrentPrice: 24500,
		Context:      "No recent news fetched.",
	}

	content := BuildUserContent(record)

	// absent fields render as "Not available", never as zero
	if strings.Count(content, "Not available") != 7 {
		t.Errorf("expected 7 'Not available' entries, got %d\n%s",
			strings.Count(content, "Not available"), content)
	}
	if strings.Contains(content, "Market Cap: 0") {
		t.Error("absent market cap must not render as zero")
	}
}
