package dto

// Amounts travel as base-10 strings so values above 2^53 survive JSON clients.

// AddLiquidityRequest is the body of POST /liquidity/add.
type AddLiquidityRequest struct {
	TokenA         string `json:"token_a"`
	TokenB         string `json:"token_b"`
	AmountADesired string `json:"amount_a_desired"`
	AmountBDesired string `json:"amount_b_desired"`
	AmountAMin     string `json:"amount_a_min,omitempty"`
	AmountBMin     string `json:"amount_b_min,omitempty"`
	To             string `json:"to,omitempty"`
	Deadline       int64  `json:"deadline"`
}

// AddLiquidityResponse is returned by POST /liquidity/add.
type AddLiquidityResponse struct {
	AmountA   string `json:"amount_a"`
	AmountB   string `json:"amount_b"`
	Liquidity string `json:"liquidity"`
}

// RemoveLiquidityRequest is the body of POST /liquidity/remove.
type RemoveLiquidityRequest struct {
	TokenA     string `json:"token_a"`
	TokenB     string `json:"token_b"`
	Liquidity  string `json:"liquidity"`
	AmountAMin string `json:"amount_a_min,omitempty"`
	AmountBMin string `json:"amount_b_min,omitempty"`
	To         string `json:"to,omitempty"`
	Deadline   int64  `json:"deadline"`
}

// RemoveLiquidityResponse is returned by POST /liquidity/remove.
type RemoveLiquidityResponse struct {
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
}

// SwapRequest is the body of POST /swap.
type SwapRequest struct {
	AmountIn     string   `json:"amount_in"`
	AmountOutMin string   `json:"amount_out_min,omitempty"`
	Path         []string `json:"path"`
	To           string   `json:"to,omitempty"`
	Deadline     int64    `json:"deadline"`
}

// SwapResponse is returned by POST /swap.
type SwapResponse struct {
	Amounts []string `json:"amounts"`
}

// PriceResponse is returned by GET /price.
type PriceResponse struct {
	Price string `json:"price"`
}

// QuoteResponse is returned by GET /quote.
type QuoteResponse struct {
	AmountOut string `json:"amount_out"`
}

// PoolResponse is returned by GET /pool.
type PoolResponse struct {
	Account     string `json:"account"`
	TokenX      string `json:"token_x"`
	TokenY      string `json:"token_y"`
	ReserveX    string `json:"reserve_x"`
	ReserveY    string `json:"reserve_y"`
	TotalSupply string `json:"total_supply"`
}

// SharesResponse is returned by GET /shares.
type SharesResponse struct {
	Account string `json:"account"`
	Shares  string `json:"shares"`
}

// BalanceResponse is returned by GET /balance.
type BalanceResponse struct {
	Asset   string `json:"asset"`
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// AssetAudit is one asset line of AuditResponse.
type AssetAudit struct {
	Asset   string `json:"asset"`
	Reserve string `json:"reserve"`
	Custody string `json:"custody"`
	Surplus string `json:"surplus"`
}

// AuditResponse is returned by GET /audit.
type AuditResponse struct {
	Healthy bool         `json:"healthy"`
	Assets  []AssetAudit `json:"assets"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
