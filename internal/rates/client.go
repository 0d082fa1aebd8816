// Package rates fetches current mortgage rate offers from the market rate
// provider. Only the selected numeric rate is handed to the calculators.
package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/hypotheek/internal/domain"
	"github.com/iwvelando/hypotheek/pkg/constants"
	"go.uber.org/zap"
)

// Filter selects the offers to fetch.
type Filter struct {
	LTVBand              domain.LTVBand
	FixedRatePeriodYears int
	BuildingType         domain.BuildingType
	EnergyLabel          domain.EnergyLabel
	Form                 domain.MortgageForm
}

// Offer is a single provider rate.
type Offer struct {
	Rate     float64 `json:"rate"`
	Provider string  `json:"provider"`
}

// product mirrors the provider's wire format.
type product struct {
	LogoURL           string  `json:"logoUrl"`
	HypotheekNaam     string  `json:"hypotheekNaam"`
	AanbiederID       string  `json:"aanbiederId"`
	AanbiederNaam     string  `json:"aanbiederNaam"`
	Rentestand        float64 `json:"rentestand"`
	HypotheekVorm     string  `json:"hypotheekVorm"`
	Trend             string  `json:"trend"`
	Uitgelicht        bool    `json:"uitgelicht"`
	LookupID          string  `json:"lookupId"`
	RentevastePeriode int     `json:"rentevastePeriode"`
}

type productsResponse struct {
	Producten []product `json:"producten"`
}

// Client queries the provider, reusing responses from its cache.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	ttl        time.Duration
	logger     *zap.Logger
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	CacheTTL   time.Duration
	Cache      Cache
	HTTPClient *http.Client
}

// NewClient creates a Client.
func NewClient(logger *zap.Logger, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = constants.DefaultRatesBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultRatesTimeoutSeconds * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = constants.DefaultRatesCacheTTLSeconds * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		cache:      opts.Cache,
		ttl:        opts.CacheTTL,
		logger:     logger,
	}
}

// RequestURL returns the provider URL for the filter, which is also the
// cache key.
func (c *Client) RequestURL(f Filter) string {
	form := f.Form
	if form == "" {
		form = domain.FormAnnuity
	}
	params := url.Values{}
	params.Set("HypotheekVorm", string(form))
	params.Set("RentevastePeriode", strconv.Itoa(f.FixedRatePeriodYears))
	params.Set("RenteBasis", string(f.LTVBand))
	params.Set("IsNieuwbouw", strconv.FormatBool(f.BuildingType.IsNew()))
	if code := f.EnergyLabel.ProviderCode(); code != "" {
		params.Set("EnergyLabel", code)
	}
	return c.baseURL + constants.RatesPath + "?" + params.Encode()
}

// Offers returns the provider's offers for the filter.
func (c *Client) Offers(ctx context.Context, f Filter) ([]Offer, error) {
	requestURL := c.RequestURL(f)

	body, err := c.cached(ctx, requestURL)
	if body == nil || err != nil {
		body, err = c.fetch(ctx, requestURL)
		if err != nil {
			return nil, err
		}
		c.store(ctx, requestURL, body)
	}

	var resp productsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode rate offers: %w", err)
	}

	offers := make([]Offer, 0, len(resp.Producten))
	for _, p := range resp.Producten {
		offers = append(offers, Offer{Rate: p.Rentestand, Provider: p.AanbiederNaam})
	}
	return offers, nil
}

func (c *Client) fetch(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close rate response body",
				zap.String("op", "rates.fetch"),
				zap.Error(closeErr),
			)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	c.logger.Debug("fetched rate offers",
		zap.String("op", "rates.fetch"),
		zap.String("url", requestURL),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, error) {
	if c.cache == nil {
		return nil, nil
	}
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("rate cache read failed, fetching from provider",
			zap.String("op", "rates.cached"),
			zap.Error(err),
		)
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return body, nil
}

func (c *Client) store(ctx context.Context, key string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("rate cache write failed",
			zap.String("op", "rates.store"),
			zap.Error(err),
		)
	}
}

// SelectRate returns the rate of the offer at index.
func SelectRate(offers []Offer, index int) (float64, error) {
	if index < 0 || index >= len(offers) {
		return 0, fmt.Errorf("offer %d not available, %d offers returned", index, len(offers))
	}
	return offers[index].Rate, nil
}
