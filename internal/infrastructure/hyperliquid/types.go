package hyperliquid

// Wire types for the /info endpoint. All numeric fields arrive as
// strings; parsing is defensive (bad value -> zero, not an error).

type infoRequest struct {
	Type string `json:"type"`
	User string `json:"user,omitempty"`
}

type marginSummary struct {
	AccountValue    string `json:"accountValue"`
	TotalNtlPos     string `json:"totalNtlPos"`
	TotalRawUsd     string `json:"totalRawUsd"`
	TotalMarginUsed string `json:"totalMarginUsed"`
}

type wirePosition struct {
	Coin     string `json:"coin"`
	Szi      string `json:"szi"`
	Leverage struct {
		Type  string  `json:"type"`
		Value float64 `json:"value"`
	} `json:"leverage"`
	EntryPx       string  `json:"entryPx"`
	PositionValue string  `json:"positionValue"`
	UnrealizedPnl string  `json:"unrealizedPnl"`
	LiquidationPx string  `json:"liquidationPx"`
	MarginUsed    string  `json:"marginUsed"`
	MaxLeverage   float64 `json:"maxLeverage"`
}

type assetPosition struct {
	Type     string       `json:"type"`
	Position wirePosition `json:"position"`
}

type clearinghouseState struct {
	MarginSummary  *marginSummary  `json:"marginSummary"`
	Withdrawable   string          `json:"withdrawable"`
	AssetPositions []assetPosition `json:"assetPositions"`
	Time           int64           `json:"time"`
}

type assetCtx struct {
	Name   string `json:"name"`
	MarkPx string `json:"markPx"`
}
