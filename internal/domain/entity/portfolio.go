package entity

// PortfolioDocument is the precomputed valuation returned by the upstream API.
type PortfolioDocument struct {
	TotalValueUSD    Amount              `json:"total_value_usd"`
	NativeBalance    Position            `json:"native_pepu"`
	StakedBalance    Position            `json:"staked_pepu"`
	UnclaimedRewards Position            `json:"unclaimed_rewards"`
	Tokens           []TokenHolding      `json:"tokens"`
	LiquidityPools   []LiquidityPosition `json:"lp_positions,omitempty"`
}

// Position is one of the three fixed portfolio slots.
type Position struct {
	Amount   Amount `json:"amount"`
	PriceUSD Amount `json:"price_usd"`
	TotalUSD Amount `json:"total_usd"`
}

// TokenHolding is a token balance beyond the fixed positions.
type TokenHolding struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Contract string `json:"contract"`
	Amount   Amount `json:"amount"`
	PriceUSD Amount `json:"price_usd"`
	TotalUSD Amount `json:"total_usd"`
	Icon     string `json:"icon,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

// LiquidityPosition is a two-asset pool share. Token symbols are optional
// upstream and get parsed out of Name when absent.
type LiquidityPosition struct {
	Name         string `json:"name"`
	Token0Symbol string `json:"token0_symbol,omitempty"`
	Token1Symbol string `json:"token1_symbol,omitempty"`
	Token0Amount Amount `json:"token0_amount"`
	Token1Amount Amount `json:"token1_amount"`
	Token0USD    Amount `json:"token0_usd"`
	Token1USD    Amount `json:"token1_usd"`
	Warning      string `json:"warning,omitempty"`
}
