package responder

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/fetch"
)

const stocksInstructions = "You are a financial expert that specializes in stock market data and analysis."

// maxSymbols caps the symbol set to bound external calls per query.
const maxSymbols = 3

// symbolPattern matches candidate ticker symbols: short uppercase tokens.
var symbolPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// symbolStopwords are common words that would otherwise look like tickers.
var symbolStopwords = map[string]struct{}{
	"I": {}, "A": {}, "THE": {}, "FOR": {}, "AND": {}, "OR": {},
	"IF": {}, "IS": {}, "ARE": {}, "TO": {}, "IN": {},
}

// companyTickers reconciles well-known company names against their
// ticker symbols when the query spells the company out.
var companyTickers = map[string]string{
	"apple":     "AAPL",
	"microsoft": "MSFT",
	"amazon":    "AMZN",
	"google":    "GOOGL",
	"alphabet":  "GOOGL",
	"facebook":  "META",
	"meta":      "META",
	"tesla":     "TSLA",
	"nvidia":    "NVDA",
	"netflix":   "NFLX",
}

// Stocks answers financial queries, fetching quotes for up to three
// symbols extracted from the query.
type Stocks struct {
	Base
	source fetch.Source
}

// NewStocks creates the stocks responder. source may be nil, in which
// case answers rely on general knowledge alone.
func NewStocks(cfg Config, source fetch.Source) *Stocks {
	return &Stocks{Base: NewBase(string(core.StocksResponder), stocksInstructions, cfg), source: source}
}

// Name implements core.Responder.
func (s *Stocks) Name() core.ResponderName { return core.StocksResponder }

// Answer implements core.Responder. Symbols are extracted by pattern
// match, reconciled against the company table, and as a last resort
// requested from the model (which may answer NONE). Per-symbol fetches
// run strictly sequentially; a failed fetch is reported in the prompt
// rather than propagated.
func (s *Stocks) Answer(ctx context.Context, threadID, query string) (string, error) {
	symbols := s.extractSymbols(ctx, query)

	if len(symbols) == 0 {
		answer := "I don't see any specific stock symbols in your query. Please mention a specific company or stock symbol like AAPL for Apple or MSFT for Microsoft."
		s.addContext(threadID, "agent_response", answer, 0.9, "")
		return answer, nil
	}

	var quotes []string
	for _, symbol := range symbols {
		if s.source == nil {
			quotes = append(quotes, fmt.Sprintf("%s: no market data source configured", symbol))
			continue
		}
		data, err := s.source.Fetch(ctx, symbol)
		if err != nil {
			s.logger.Warn("quote unavailable", "symbol", symbol, "error", err)
			quotes = append(quotes, fmt.Sprintf("%s: error retrieving data (%v)", symbol, err))
			continue
		}
		quotes = append(quotes, fmt.Sprintf("%s:\n%s", symbol, data.PromptFormat()))
	}

	answer, err := s.complete(ctx, stocksPrompt(query, quotes))
	if err != nil || strings.TrimSpace(answer) == "" {
		s.logger.Warn("stocks answer degraded", "error", err)
		answer = s.degradedAnswer(fmt.Sprintf("stock data for %s", strings.Join(symbols, ", ")))
	}

	s.addContext(threadID, "agent_response", answer, 0.9, "")
	return answer, err
}

// extractSymbols builds the symbol set for a query, capped at maxSymbols.
func (s *Stocks) extractSymbols(ctx context.Context, query string) []string {
	var symbols []string
	seen := make(map[string]struct{})
	add := func(symbol string) {
		if _, dup := seen[symbol]; dup {
			return
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	}

	for _, tok := range symbolPattern.FindAllString(query, -1) {
		if _, stop := symbolStopwords[tok]; stop {
			continue
		}
		add(tok)
	}

	lower := strings.ToLower(query)
	for _, company := range sortedCompanies() {
		if strings.Contains(lower, company) {
			add(companyTickers[company])
		}
	}

	// Last resort: ask the model to name at most one ticker.
	if len(symbols) == 0 {
		raw, err := s.complete(ctx, extractSymbolPrompt(query))
		if err == nil {
			candidate := strings.ToUpper(strings.TrimSpace(raw))
			if candidate != "" && candidate != "NONE" && symbolPattern.MatchString(candidate) && len(candidate) <= 5 {
				add(candidate)
			}
		}
	}

	if len(symbols) > maxSymbols {
		symbols = symbols[:maxSymbols]
	}
	return symbols
}

func sortedCompanies() []string {
	companies := make([]string, 0, len(companyTickers))
	for company := range companyTickers {
		companies = append(companies, company)
	}
	sort.Strings(companies)
	return companies
}

func extractSymbolPrompt(query string) string {
	return fmt.Sprintf(`Extract a potential stock ticker symbol or company name from this query:
%q

Return only the stock ticker symbol (e.g., AAPL, MSFT) with no additional text.
If multiple symbols, return the most relevant one.
If no clear stock or company is mentioned, return "NONE".`, query)
}

func stocksPrompt(query string, quotes []string) string {
	return fmt.Sprintf(`Query: %s

Stock Data:
%s

Based on the stock data above, provide a clear and informative response to the query.
Include relevant price information, percentage changes, and any notable context.
If there was an error retrieving data, acknowledge it and provide general information if possible.`, query, strings.Join(quotes, "\n\n"))
}
