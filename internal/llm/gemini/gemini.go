// Package gemini implements the narrator against the Google Generative
// Language API. Per contract, it never returns generation failures as
// errors: the caller always receives renderable content, with Failed set
// when that content is a failure report.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tradesage/internal/api"
	"tradesage/internal/llm"
	"tradesage/internal/logger"
	"tradesage/internal/store"
	"tradesage/internal/trace"
	"tradesage/internal/types"
)

const defaultBase = "https://generativelanguage.googleapis.com"

// Narrator generates the persona-styled analysis via Gemini.
type Narrator struct {
	cfg  *store.Config
	http *api.Client
	base string
}

// Option configures the narrator.
type Option func(*Narrator)

// WithBase overrides the API base URL (used in tests).
func WithBase(base string) Option {
	return func(n *Narrator) {
		n.base = base
	}
}

// New creates a Gemini narrator.
func New(cfg *store.Config, opts ...Option) *Narrator {
	n := &Narrator{
		cfg:  cfg,
		http: api.NewClient(api.WithTimeout(120 * time.Second)),
		base: defaultBase,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type generateRequest struct {
	SystemInstruction content   `json:"system_instruction"`
	Contents          []turn    `json:"contents"`
	GenerationConfig  genConfig `json:"generationConfig"`
}

type turn struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze calls the model with the persona template and the rendered
// record. horizonDays is accepted for interface parity and does not alter
// the prompt. Failures come back as a Failed analysis, never as a panic or
// error.
func (n *Narrator) Analyze(ctx context.Context, record *types.MarketRecord, horizonDays int) types.Analysis {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	if n.cfg.GeminiAPIKey == "" {
		return failed("GEMINI_API_KEY not found in environment variables")
	}

	req := generateRequest{
		SystemInstruction: content{Parts: []part{{Text: llm.SystemInstruction()}}},
		Contents: []turn{{
			Role:  "user",
			Parts: []part{{Text: llm.BuildUserContent(record)}},
		}},
		GenerationConfig: genConfig{
			Temperature:     n.cfg.LLM.Temperature,
			MaxOutputTokens: n.cfg.LLM.MaxTokens,
		},
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", n.base, n.cfg.LLM.Model)
	resp, err := n.http.POST(ctx, url, req, map[string]string{
		"x-goog-api-key": n.cfg.GeminiAPIKey,
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Gemini generation call failed", err, "symbol", record.Symbol)
		return failed(fmt.Sprintf("generating analysis failed: %v", err))
	}

	var parsed generateResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return failed(fmt.Sprintf("generating analysis failed: %v", err))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return failed("generating analysis failed: model returned no candidates")
	}

	texts := make([]string, 0, len(parsed.Candidates[0].Content.Parts))
	for _, p := range parsed.Candidates[0].Content.Parts {
		texts = append(texts, p.Text)
	}
	text := strings.TrimSpace(strings.Join(texts, ""))
	if text == "" {
		return failed("generating analysis failed: model returned empty text")
	}

	return types.Analysis{Text: text}
}

func failed(reason string) types.Analysis {
	return types.Analysis{Failed: true, Reason: reason}
}
