// Package brapi is a client for the brapi.dev quote provider. It knows the
// provider's URL shapes and payload encoding and normalizes responses into
// the shared model types; retry behavior lives in the transport layer.
package brapi

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/transport"
)

// DefaultBaseURL is the public brapi API root.
const DefaultBaseURL = "https://brapi.dev/api"

// Client fetches quotes, history and the symbol directory from brapi.
type Client struct {
	transport *transport.Client
	baseURL   string
	token     string
}

// NewClient creates a brapi client. The token is optional; when empty it is
// simply omitted from request URLs.
func NewClient(t *transport.Client, baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		transport: t,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		token:     token,
	}
}

// endpoint builds a request URL, appending the token only when one is set so
// that tokenless deployments never produce a dangling "?token=".
func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if c.token != "" {
		query.Set("token", c.token)
	}
	u := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

type quoteResponse struct {
	Results []quoteResult `json:"results"`
}

type quoteResult struct {
	Symbol                     string            `json:"symbol"`
	LongName                   string            `json:"longName"`
	ShortName                  string            `json:"shortName"`
	RegularMarketPrice         float64           `json:"regularMarketPrice"`
	RegularMarketChangePercent *float64          `json:"regularMarketChangePercent"`
	RegularMarketPreviousClose *float64          `json:"regularMarketPreviousClose"`
	LogoURL                    string            `json:"logourl"`
	HistoricalDataPrice        []historicalPrice `json:"historicalDataPrice"`
}

type historicalPrice struct {
	Date   int64   `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type listResponse struct {
	Stocks []listedStock `json:"stocks"`
}

type listedStock struct {
	Stock     string   `json:"stock"`
	Name      string   `json:"name"`
	Close     float64  `json:"close"`
	Change    float64  `json:"change"`
	Volume    int64    `json:"volume"`
	MarketCap *float64 `json:"market_cap"`
	Logo      string   `json:"logo"`
	Sector    *string  `json:"sector"`
}

// GetQuotes fetches live quote snapshots for one or more tickers in a single
// batch request. Tickers the provider does not know are absent from the
// result; that is not an error.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	u := c.endpoint("/quote/"+strings.Join(symbols, ","), nil)
	body, err := c.transport.Get(ctx, u)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch quotes")
	}

	var resp quoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal quote response")
	}

	quotes := make([]models.Quote, 0, len(resp.Results))
	for _, r := range resp.Results {
		name := r.LongName
		if name == "" {
			name = r.ShortName
		}
		quotes = append(quotes, models.Quote{
			Symbol:        strings.ToUpper(r.Symbol),
			Name:          name,
			Price:         r.RegularMarketPrice,
			ChangePercent: r.RegularMarketChangePercent,
			PreviousClose: r.RegularMarketPreviousClose,
			LogoURL:       r.LogoURL,
		})
	}
	return quotes, nil
}

// GetHistory fetches the historical price series for a ticker using a
// provider-vocabulary (range, interval) pair. Provider timestamps are Unix
// seconds; bars come back sorted ascending with null bars dropped.
func (c *Client) GetHistory(ctx context.Context, symbol string, spec models.RangeSpec) ([]models.PriceBar, error) {
	query := url.Values{}
	query.Set("range", spec.Range)
	query.Set("interval", spec.Interval)

	u := c.endpoint("/quote/"+url.PathEscape(symbol), query)
	body, err := c.transport.Get(ctx, u)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch history for %s", symbol)
	}

	var resp quoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal history response")
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	raw := resp.Results[0].HistoricalDataPrice
	bars := make([]models.PriceBar, 0, len(raw))
	for _, p := range raw {
		if p.Open == 0 && p.High == 0 && p.Low == 0 && p.Close == 0 {
			continue // null bars (holidays, halted sessions)
		}
		bars = append(bars, models.PriceBar{
			Timestamp: time.Unix(p.Date, 0).UTC(),
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			Volume:    p.Volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

// ListStocks fetches the full tradable-symbol directory.
func (c *Client) ListStocks(ctx context.Context) ([]models.SymbolListing, error) {
	u := c.endpoint("/quote/list", nil)
	body, err := c.transport.Get(ctx, u)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch stock list")
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal stock list")
	}

	listings := make([]models.SymbolListing, 0, len(resp.Stocks))
	for _, s := range resp.Stocks {
		listing := models.SymbolListing{
			Ticker:    strings.ToUpper(s.Stock),
			Name:      s.Name,
			Close:     s.Close,
			Change:    s.Change,
			Volume:    s.Volume,
			MarketCap: s.MarketCap,
			LogoURL:   s.Logo,
		}
		if s.Sector != nil {
			listing.Sector = *s.Sector
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
