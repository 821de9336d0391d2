package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const tickerUrlPath = "/api/v3/ticker/price"

// PriceFeedController fetches the last traded price for a symbol from the
// upstream market data endpoint.
type PriceFeedController struct {
	client *http.Client
	url    string

	logger *logrus.Logger
}

func NewPriceFeedController(
	client *http.Client,
	url string,
	logger *logrus.Logger,
) *PriceFeedController {
	return &PriceFeedController{
		client: client,
		url:    url,
		logger: logger,
	}
}

func (c *PriceFeedController) LastPrice(symbol string) (decimal.Decimal, error) {
	baseURL, err := url.Parse(c.url)
	if err != nil {
		return decimal.Zero, err
	}

	baseURL.Path = path.Join(tickerUrlPath)

	q := baseURL.Query()
	q.Set("symbol", symbol)
	baseURL.RawQuery = q.Encode()

	resp, err := c.client.Get(baseURL.String())
	if err != nil {
		return decimal.Zero, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, err
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("statusCode %d; resp %s;", resp.StatusCode, body)
	}

	var out struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return decimal.Zero, err
	}

	price, err := decimal.NewFromString(out.Price)
	if err != nil {
		return decimal.Zero, err
	}

	return price, nil
}
