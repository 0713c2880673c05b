package http

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/pkg/errors"

	"github.com/fleshka4/amm-pool/internal/apperrors"
	"github.com/fleshka4/amm-pool/internal/transport/http/dto"
	"github.com/fleshka4/amm-pool/internal/transport/http/validate"
)

func (s *Server) handleAddLiquidity(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.AddLiquidityRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	res, err := s.svc.AddLiquidity(ctx, *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, dto.AddLiquidityResponse{
		AmountA:   res.AmountA.String(),
		AmountB:   res.AmountB.String(),
		Liquidity: res.Liquidity.String(),
	})
}

func (s *Server) handleRemoveLiquidity(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.RemoveLiquidityRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	res, err := s.svc.RemoveLiquidity(ctx, *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, dto.RemoveLiquidityResponse{
		AmountA: res.AmountA.String(),
		AmountB: res.AmountB.String(),
	})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.SwapRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	amounts, err := s.svc.Swap(ctx, *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, dto.SwapResponse{Amounts: decimalStrings(amounts...)})
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	tokenA, tokenB, code, err := validate.PairRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}

	price, err := s.svc.Price(r.Context(), tokenA, tokenB)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, dto.PriceResponse{Price: price.String()})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuoteRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}

	out, err := s.svc.Quote(r.Context(), *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, dto.QuoteResponse{AmountOut: out.String()})
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	st := s.svc.State(r.Context())

	s.writeJSON(w, http.StatusOK, dto.PoolResponse{
		Account:     st.Account.Hex(),
		TokenX:      st.TokenX.Hex(),
		TokenY:      st.TokenY.Hex(),
		ReserveX:    st.ReserveX.String(),
		ReserveY:    st.ReserveY.String(),
		TotalSupply: st.TotalSupply.String(),
	})
}

func (s *Server) handleShares(w http.ResponseWriter, r *http.Request) {
	account, code, err := validate.AccountQueryValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}

	s.writeJSON(w, http.StatusOK, dto.SharesResponse{
		Account: account.Hex(),
		Shares:  s.svc.Shares(r.Context(), account).String(),
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	asset, account, code, err := validate.BalanceRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}

	balance, err := s.svc.Balance(r.Context(), asset, account)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, dto.BalanceResponse{
		Asset:   asset.Hex(),
		Account: account.Hex(),
		Balance: balance.String(),
	})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	report, err := s.svc.Audit(ctx)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := dto.AuditResponse{Healthy: report.Healthy}
	for _, a := range report.Assets {
		resp.Assets = append(resp.Assets, dto.AssetAudit{
			Asset:   a.Asset.Hex(),
			Reserve: a.Reserve.String(),
			Custody: a.Custody.String(),
			Surplus: a.Surplus.String(),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNoLiquidity),
		errors.Is(err, apperrors.ErrReentrantCall):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrTransferFailed):
		// a rejected pull because the caller is short is still the caller's fault
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrInvalidArgument),
		errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrInvalidPair),
		errors.Is(err, apperrors.ErrInvalidPathLength),
		errors.Is(err, apperrors.ErrInvalidRecipient),
		errors.Is(err, apperrors.ErrExpired),
		errors.Is(err, apperrors.ErrInsufficientLiquidityMinted),
		errors.Is(err, apperrors.ErrInsufficientShares),
		errors.Is(err, apperrors.ErrSlippageExceeded),
		errors.Is(err, apperrors.ErrInsufficientOutputAmount),
		errors.Is(err, apperrors.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error().Err(err).Int("status", code).Msg("request failed")
	}
	if code == http.StatusInternalServerError {
		err = errors.New("internal error")
	}
	s.writeError(w, code, err)
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	if code == 0 {
		code = http.StatusBadRequest
	}
	s.writeJSON(w, code, dto.ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("response write error")
	}
}

func decimalStrings(vs ...*big.Int) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.String())
	}
	return out
}
