package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PriceEntry is one currency/price pair as served by the prices endpoint.
type PriceEntry struct {
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
}

// Label renders the entry the way the option lists show it.
func (p PriceEntry) Label() string {
	return fmt.Sprintf("%s - %s", p.Currency, FormatPrice(p.Price))
}

// FormatPrice renders a price with the shortest representation that round-trips.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

type Selection struct {
	BasePrice   float64 `json:"base_price"`
	TargetPrice float64 `json:"target_price"`
}

type ConversionStatus string

const (
	StatusOK             ConversionStatus = "ok"
	StatusZeroAmount     ConversionStatus = "zero_amount"
	StatusDegenerateRate ConversionStatus = "degenerate_rate"
	StatusInvalidAmount  ConversionStatus = "invalid_amount"
)

// Conversion is the outcome of one derivation. Value is 0 whenever Status
// is not StatusOK.
type Conversion struct {
	Value  float64          `json:"value"`
	Status ConversionStatus `json:"status"`
}

// Update is what a session publishes after each recomputation.
type Update struct {
	Seq         uint64           `json:"seq"`
	BasePrice   float64          `json:"base_price"`
	TargetPrice float64          `json:"target_price"`
	Amount      string           `json:"amount"`
	Converted   float64          `json:"converted"`
	Display     string           `json:"display"`
	Status      ConversionStatus `json:"status"`
}

type ConversionRequest struct {
	BasePrice   float64    `json:"base_price"`
	TargetPrice float64    `json:"target_price"`
	Amount      AmountText `json:"amount"`
}

type ConversionResponse struct {
	BasePrice   float64          `json:"base_price"`
	TargetPrice float64          `json:"target_price"`
	Amount      string           `json:"amount"`
	Converted   float64          `json:"converted"`
	Display     string           `json:"display"`
	Status      ConversionStatus `json:"status"`
}

type PricesResponse struct {
	Loading bool         `json:"loading"`
	Prices  []PriceEntry `json:"prices"`
	Error   string       `json:"error,omitempty"`
}

// WebSocket message types.
const (
	MessageLoading      = "loading"
	MessagePrices       = "prices"
	MessageUpdate       = "update"
	MessageError        = "error"
	MessageSelectBase   = "select_base"
	MessageSelectTarget = "select_target"
	MessageAmount       = "amount"
)

// WSMessage is a client to server message.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WSResponse is a server to client message.
type WSResponse struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type SelectPayload struct {
	Price float64 `json:"price"`
}

type AmountPayload struct {
	Value AmountText `json:"value"`
}

// AmountText is raw amount input. It accepts a JSON string or number so
// clients may forward the field value either way.
type AmountText string

func (a *AmountText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = AmountText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	*a = AmountText(n.String())
	return nil
}

// PricesPayload is sent once the price list is available.
type PricesPayload struct {
	Prices   []PriceEntry `json:"prices"`
	Defaults Selection    `json:"defaults"`
	Update   Update       `json:"update"`
}
