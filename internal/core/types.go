package core

import (
	"fmt"
	"strings"
	"time"
)

// InstrumentType represents the kind of tradable instrument
type InstrumentType string

const (
	InstrumentEquity InstrumentType = "equity"
	InstrumentCrypto InstrumentType = "crypto"
)

// ParseInstrumentType accepts the canonical names plus a few common aliases
func ParseInstrumentType(s string) (InstrumentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equity", "stock", "":
		return InstrumentEquity, nil
	case "crypto", "coin", "cryptocurrency":
		return InstrumentCrypto, nil
	default:
		return "", fmt.Errorf("unknown instrument type: %s", s)
	}
}

// Action represents a directional classification: indicator signals,
// analyst ratings and recommendations all share this scale
type Action string

const (
	ActionStrongBuy  Action = "strong_buy"
	ActionBuy        Action = "buy"
	ActionHold       Action = "hold"
	ActionSell       Action = "sell"
	ActionStrongSell Action = "strong_sell"
)

// IsBuy reports whether the action points upwards
func (a Action) IsBuy() bool {
	return a == ActionBuy || a == ActionStrongBuy
}

// IsSell reports whether the action points downwards
func (a Action) IsSell() bool {
	return a == ActionSell || a == ActionStrongSell
}

// Rank orders actions from strong_sell (0) to strong_buy (4)
func (a Action) Rank() int {
	switch a {
	case ActionStrongBuy:
		return 4
	case ActionBuy:
		return 3
	case ActionHold:
		return 2
	case ActionSell:
		return 1
	default:
		return 0
	}
}

// Snapshot is one immutable price/volume reading for an instrument.
// MarketCap is zero when the provider does not report it.
type Snapshot struct {
	Symbol         string         `json:"symbol"`
	Name           string         `json:"name"`
	InstrumentType InstrumentType `json:"instrumentType"`
	Price          float64        `json:"price"`
	ChangePercent  float64        `json:"changePercent"`
	Volume         float64        `json:"volume"`
	MarketCap      float64        `json:"marketCap,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
	Source         string         `json:"source,omitempty"`
}

// IsValid checks if the snapshot has the fields every stage needs
func (s *Snapshot) IsValid() bool {
	return s != nil && s.Symbol != "" && s.Price > 0
}

// DisplayName returns the instrument name, falling back to the symbol
func (s *Snapshot) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Symbol
}
