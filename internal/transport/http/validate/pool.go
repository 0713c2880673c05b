package validate

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	svcdto "github.com/fleshka4/amm-pool/internal/service/dto"
	"github.com/fleshka4/amm-pool/internal/transport/http/dto"
)

// AccountHeader carries the identity of the caller. Authenticating it is the
// job of whatever sits in front of this service.
const AccountHeader = "X-Account"

const maxBodyBytes = 1 << 20

// Caller returns the account named by the X-Account header.
func Caller(r *http.Request) (common.Address, int, error) {
	v := r.Header.Get(AccountHeader)
	if v == "" {
		return common.Address{}, http.StatusUnauthorized, errors.New("missing " + AccountHeader + " header")
	}
	addr, err := address(AccountHeader, v)
	if err != nil {
		return common.Address{}, http.StatusBadRequest, err
	}
	return addr, 0, nil
}

// AddLiquidityRequestValidate validates POST /liquidity/add and returns the service dto.
func AddLiquidityRequestValidate(r *http.Request) (*svcdto.AddLiquidityRequest, int, error) {
	caller, code, err := Caller(r)
	if err != nil {
		return nil, code, err
	}

	var body dto.AddLiquidityRequest
	if err := decode(r, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	var (
		p   parser
		req = &svcdto.AddLiquidityRequest{Caller: caller, Deadline: body.Deadline}
	)
	req.TokenA = p.address("token_a", body.TokenA)
	req.TokenB = p.address("token_b", body.TokenB)
	req.AmountADesired = p.amount("amount_a_desired", body.AmountADesired, true)
	req.AmountBDesired = p.amount("amount_b_desired", body.AmountBDesired, true)
	req.AmountAMin = p.amount("amount_a_min", body.AmountAMin, false)
	req.AmountBMin = p.amount("amount_b_min", body.AmountBMin, false)
	req.To = p.recipient(body.To, caller)
	p.deadline(body.Deadline)

	if p.err != nil {
		return nil, http.StatusBadRequest, p.err
	}
	return req, 0, nil
}

// RemoveLiquidityRequestValidate validates POST /liquidity/remove and returns the service dto.
func RemoveLiquidityRequestValidate(r *http.Request) (*svcdto.RemoveLiquidityRequest, int, error) {
	caller, code, err := Caller(r)
	if err != nil {
		return nil, code, err
	}

	var body dto.RemoveLiquidityRequest
	if err := decode(r, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	var (
		p   parser
		req = &svcdto.RemoveLiquidityRequest{Caller: caller, Deadline: body.Deadline}
	)
	req.TokenA = p.address("token_a", body.TokenA)
	req.TokenB = p.address("token_b", body.TokenB)
	req.Liquidity = p.amount("liquidity", body.Liquidity, true)
	req.AmountAMin = p.amount("amount_a_min", body.AmountAMin, false)
	req.AmountBMin = p.amount("amount_b_min", body.AmountBMin, false)
	req.To = p.recipient(body.To, caller)
	p.deadline(body.Deadline)

	if p.err != nil {
		return nil, http.StatusBadRequest, p.err
	}
	return req, 0, nil
}

// SwapRequestValidate validates POST /swap and returns the service dto.
func SwapRequestValidate(r *http.Request) (*svcdto.SwapRequest, int, error) {
	caller, code, err := Caller(r)
	if err != nil {
		return nil, code, err
	}

	var body dto.SwapRequest
	if err := decode(r, &body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	var (
		p   parser
		req = &svcdto.SwapRequest{Caller: caller, Deadline: body.Deadline}
	)
	req.AmountIn = p.amount("amount_in", body.AmountIn, true)
	req.AmountOutMin = p.amount("amount_out_min", body.AmountOutMin, false)
	for _, hop := range body.Path {
		req.Path = append(req.Path, p.address("path", hop))
	}
	req.To = p.recipient(body.To, caller)
	p.deadline(body.Deadline)

	if p.err != nil {
		return nil, http.StatusBadRequest, p.err
	}
	return req, 0, nil
}

// PairRequestValidate validates the token_a and token_b query parameters of GET /price.
func PairRequestValidate(r *http.Request) (common.Address, common.Address, int, error) {
	q := r.URL.Query()

	var p parser
	a := p.address("token_a", q.Get("token_a"))
	b := p.address("token_b", q.Get("token_b"))
	if p.err != nil {
		return common.Address{}, common.Address{}, http.StatusBadRequest, p.err
	}
	return a, b, 0, nil
}

// QuoteRequestValidate validates GET /quote and returns the service dto.
func QuoteRequestValidate(r *http.Request) (*svcdto.QuoteRequest, int, error) {
	q := r.URL.Query()

	var (
		p   parser
		req = &svcdto.QuoteRequest{}
	)
	req.TokenIn = p.address("token_in", q.Get("token_in"))
	req.TokenOut = p.address("token_out", q.Get("token_out"))
	req.AmountIn = p.amount("amount_in", q.Get("amount_in"), true)

	if p.err != nil {
		return nil, http.StatusBadRequest, p.err
	}
	return req, 0, nil
}

// AccountQueryValidate reads the account query parameter, falling back to the caller header.
func AccountQueryValidate(r *http.Request) (common.Address, int, error) {
	if v := r.URL.Query().Get("account"); v != "" {
		addr, err := address("account", v)
		if err != nil {
			return common.Address{}, http.StatusBadRequest, err
		}
		return addr, 0, nil
	}
	return Caller(r)
}

// BalanceRequestValidate validates GET /balance.
func BalanceRequestValidate(r *http.Request) (common.Address, common.Address, int, error) {
	account, code, err := AccountQueryValidate(r)
	if err != nil {
		return common.Address{}, common.Address{}, code, err
	}

	asset, err := address("asset", r.URL.Query().Get("asset"))
	if err != nil {
		return common.Address{}, common.Address{}, http.StatusBadRequest, err
	}
	return asset, account, 0, nil
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "bad json body")
	}
	return nil
}

func address(name, v string) (common.Address, error) {
	if v == "" {
		return common.Address{}, errors.Errorf("missing %s", name)
	}
	if !common.IsHexAddress(v) {
		return common.Address{}, errors.Errorf("bad %s address format", name)
	}
	return common.HexToAddress(v), nil
}

// parser keeps the first error so a request body can be read field by field.
type parser struct {
	err error
}

func (p *parser) address(name, v string) common.Address {
	if p.err != nil {
		return common.Address{}
	}
	addr, err := address(name, v)
	p.err = err
	return addr
}

func (p *parser) amount(name, v string, required bool) *big.Int {
	if p.err != nil {
		return nil
	}
	if v == "" {
		if required {
			p.err = errors.Errorf("missing %s", name)
			return nil
		}
		return new(big.Int)
	}
	a, ok := new(big.Int).SetString(v, 10)
	if !ok || a.Sign() < 0 {
		p.err = errors.Errorf("bad %s", name)
		return nil
	}
	return a
}

func (p *parser) recipient(v string, caller common.Address) common.Address {
	if v == "" {
		return caller
	}
	return p.address("to", v)
}

func (p *parser) deadline(v int64) {
	if p.err == nil && v <= 0 {
		p.err = errors.New("missing deadline")
	}
}
