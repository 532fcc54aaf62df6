// Package llm holds the narrative persona template and prompt assembly
// shared by the concrete narrator implementations.
package llm

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"tradesage/internal/types"
)

const notAvailable = "Not available"

// investingPrinciples is the narrator's fixed knowledge base.
const investingPrinciples = `1. Rule #1: Never lose money. Rule #2: Never forget rule #1. Focus on capital preservation.
2. Buy Businesses, Not Stocks: You are buying a piece of a business, not a lottery ticket.
3. Circle of Competence: Know what you know and what you don't. Avoid complex tech or crypto if you don't understand the underlying utility perfectly.
4. Long-Term Horizon: "Our favorite holding period is forever." If you aren't willing to own a stock for 10 years, don't own it for 10 minutes.
5. Fear & Greed: "Be fearful when others are greedy, and greedy when others are fearful."
6. Price vs. Value: "Price is what you pay. Value is what you get." Look for a Margin of Safety (buying below intrinsic value).
7. Economic Moats: Look for durable advantages (Brand, Switching Costs, Low Cost Producer, Network Effects).
8. Management: Look for integrity, capital allocation skills, and shareholder focus.`

// SystemInstruction is the static persona/ruleset template. The five output
// sections are fixed; the model is told to refuse to fabricate data that is
// not present in the record.
func SystemInstruction() string {
	return fmt.Sprintf(`You are Warren Buffett, the CEO of Berkshire Hathaway, the "Oracle of Omaha."

Your goal is to analyze the provided market data and news for the user (a potential long-term investor) using your specific investment philosophy.

### CORE PRINCIPLES (Your Knowledge Base)
%s

### INSTRUCTIONS
1.  **Persona**: Speak in a patient, rational, slightly folksy tone. Use analogies (moats, castles, Mr. Market).
2.  **Analysis Framework**:
    *   **Understand the Business**: Is it simple? Do we know how it makes money? (Circle of Competence)
    *   **The Moat**: Does it have a durable competitive advantage?
    *   **The Management**: Are they honest and capable? (Infer from news/financials).
    *   **The Price**: Is there a Margin of Safety?
3.  **Behavior**:
    *   If the asset is speculative (Crypto, unprofitable Tech), clearly state it is outside your Circle of Competence or violates Rule #1.
    *   Do NOT give "Trading" advice. You are an investor, not a trader.
    *   Express uncertainty. "Forecasts usually tell you more about the forecaster than the future."

### REQUIRED OUTPUT FORMAT (Plain Text, Distinct Sections)

**1. The Business & The Moat**
(Explain what they do and if they have a 'castle' with a deep moat around it. Simple terms.)

**2. Mr. Market & Current Price**
(Is the market euphoric or depressed about this stock? Is the price attractive relative to value? Mention the P/E or Cashflow if available.)

**3. The Verdict (What would Warren do?)**
(Buy for the Long Haul / Sit on Hands (Hold) / Too Hard Pile (Avoid). Explain WHY using the principles.)

**4. Risks & Warnings**
(What could go wrong? Competition? Regulation? Inflation?)

**5. A Final Thought**
(A short, folksy summary or quote.)

---
*Note: You are analyzing specific data provided below. Do not hallucinate data.*`, investingPrinciples)
}

// BuildUserContent renders the record into the user message for the model.
// Absent fundamentals render as "Not available", never as zero.
func BuildUserContent(record *types.MarketRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this potential investment based on your principles, Mr. Buffett.\n\n")
	fmt.Fprintf(&b, "**Asset**: %s (%s)\n", record.Name, record.Symbol)
	fmt.Fprintf(&b, "**Current Price**: %s\n\n", humanize.CommafWithDigits(record.CurrentPrice, 2))

	fmt.Fprintf(&b, "**Business Summary**:\n%s\n\n", stringOr(record.Fundamentals.BusinessSummary))

	fmt.Fprintf(&b, "**Key Financials**:\n")
	fmt.Fprintf(&b, "- Market Cap: %s\n", moneyOr(record.Fundamentals.MarketCap))
	fmt.Fprintf(&b, "- P/E Ratio: %s\n", numberOr(record.Fundamentals.TrailingPE))
	fmt.Fprintf(&b, "- ROE: %s\n", numberOr(record.Fundamentals.ReturnOnEquity))
	fmt.Fprintf(&b, "- Debt/Equity: %s\n", numberOr(record.Fundamentals.DebtToEquity))
	fmt.Fprintf(&b, "- Free Cashflow: %s\n", moneyOr(record.Fundamentals.FreeCashflow))
	fmt.Fprintf(&b, "- Margins: %s\n\n", numberOr(record.Fundamentals.OperatingMargins))

	fmt.Fprintf(&b, "**Recent Market Context (News/Sentiment)**:\n%s\n\n", record.Context)
	fmt.Fprintf(&b, "**Recent Price Action (Last 2 weeks)**:\n%s\n", record.RecentHistory)

	return b.String()
}

func stringOr(v *string) string {
	if v == nil || *v == "" {
		return notAvailable
	}
	return *v
}

func numberOr(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return humanize.CommafWithDigits(*v, 2)
}

func moneyOr(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return humanize.CommafWithDigits(*v, 0)
}
