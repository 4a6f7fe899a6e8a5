package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"wealthdata/internal/asset"
)

const defaultModel = "gemini-2.5-flash"

const systemInstruction = `
You are the wealth intelligence engine of a personal-finance dashboard.
ROLE: Senior Quantitative Analyst & Wealth Strategist.
TONE: Clinical, Mathematical, Direct, Institutional.
STRICT PROHIBITIONS:
- NO specific stock tickers (e.g. "Buy Tesla").
- NO guarantees of returns.
`

// Insight is one generated observation about the user's finances.
type Insight struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Suggestion string `json:"suggestion"`
	Severity   string `json:"severity"` // low | medium | high
	Type       string `json:"type"`     // risk | opportunity | observation
}

// Identification is the model's best guess at a formal asset identity for a
// free-text query. Prices are never estimated here.
type Identification struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
}

// Focus narrows the insight generation to one view of the profile.
type Focus string

const (
	FocusDashboard   Focus = "dashboard"
	FocusAssets      Focus = "assets"
	FocusLiabilities Focus = "liabilities"
)

// Advisor generates wealth commentary and asset identification through the
// Gemini API. All output is advisory text; nothing here feeds back into
// price resolution.
type Advisor struct {
	client *genai.Client
	model  string
}

// New wraps an initialized genai client. The client reads its API key from
// the environment (GEMINI_API_KEY).
func New(client *genai.Client, model string) *Advisor {
	if model == "" {
		model = defaultModel
	}
	return &Advisor{client: client, model: model}
}

// Insights asks the model for 2-3 analytical observations about the
// profile. The response is constrained to JSON.
func (a *Advisor) Insights(ctx context.Context, profile asset.Profile, focus Focus) ([]Insight, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		genai.Text(insightsPrompt(profile, focus)),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
			ResponseMIMEType:  "application/json",
		})
	if err != nil {
		return nil, fmt.Errorf("generating insights: %w", err)
	}

	var insights []Insight
	if err := json.Unmarshal([]byte(stripFences(resp.Text())), &insights); err != nil {
		return nil, fmt.Errorf("decoding insights: %w", err)
	}
	return insights, nil
}

// Identify resolves a free-text asset description to a formal name, ticker,
// exchange and category.
func (a *Advisor) Identify(ctx context.Context, query, hint string) (Identification, error) {
	var id Identification
	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		genai.Text(identifyPrompt(query, hint)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return id, fmt.Errorf("identifying asset: %w", err)
	}
	if err := json.Unmarshal([]byte(stripFences(resp.Text())), &id); err != nil {
		return id, fmt.Errorf("decoding identification: %w", err)
	}
	return id, nil
}

func insightsPrompt(profile asset.Profile, focus Focus) string {
	task := ""
	switch focus {
	case FocusAssets:
		task = "Analyze only the Assets portfolio. Focus on diversification, concentration risk, and underperforming asset classes."
	case FocusLiabilities:
		task = "Analyze only the Liabilities. Focus on interest leakage, debt-to-income ratio, and payoff strategies."
	default:
		task = "Generate high-level wealth insights including Net Worth trends, Liquidity (Emergency Fund) analysis, and overall financial health."
	}

	type assetLine struct {
		Cat  asset.Category `json:"cat"`
		Val  string         `json:"val"`
		Name string         `json:"name"`
	}
	lines := make([]assetLine, 0, len(profile.Assets))
	for _, a := range profile.Assets {
		lines = append(lines, assetLine{Cat: a.Category, Val: a.Value.String(), Name: a.Name})
	}
	assetsJSON, _ := json.Marshal(lines)
	liabilitiesJSON, _ := json.Marshal(profile.Liabilities)

	currency := profile.Currency
	if currency == "" {
		currency = "INR"
	}

	return fmt.Sprintf(`
DATA:
Net Worth: %s %s
Monthly Surplus: %s %s
Assets: %s
Liabilities: %s

TASK:
%s
Generate 2-3 specific, high-value analytical insights.

JSON SCHEMA:
[
  {
    "title": "Headline (Max 5 words)",
    "content": "Analytical observation (Max 20 words)",
    "suggestion": "Specific strategy (e.g. 'Pay off 18%% credit card debt first').",
    "severity": "low"|"medium"|"high",
    "type": "risk"|"opportunity"|"observation"
  }
]
`, currency, profile.NetWorth(), currency, profile.MonthlySurplus(), assetsJSON, liabilitiesJSON, task)
}

func identifyPrompt(query, hint string) string {
	if hint == "" {
		hint = "General"
	}
	return fmt.Sprintf(`
Identify the financial asset from this query: %q (Context: %s).

TASK:
1. Identify the official full company/asset name.
2. Identify the Ticker Symbol.
3. Identify the Stock Exchange Code (e.g. NSE, BSE, NYSE, NASDAQ). Default to NSE for Indian context if ambiguous.
4. Categorize strictly into: 'Cash & Bank', 'Equity (Stocks)', 'Mutual Funds', 'Fixed Income', 'Real Estate', 'Vehicles', 'Crypto', 'Other Assets'.
5. DO NOT ESTIMATE PRICE.

Return JSON ONLY:
{
  "name": string,
  "category": string,
  "ticker": string (e.g. RELIANCE),
  "exchange": string (e.g. NSE)
}
`, query, hint)
}

// stripFences removes a markdown code fence if the model added one despite
// the JSON response mime type.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
