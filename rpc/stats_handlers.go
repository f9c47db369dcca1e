package rpc

import "net/http"

type balanceParams struct {
	Address string `json:"address"`
}

func (s *Server) handlePlatformStats(w http.ResponseWriter, req *RPCRequest) {
	stats, err := s.ledger.GetPlatformStats()
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatStats(stats))
}

func (s *Server) handleGetBalance(w http.ResponseWriter, req *RPCRequest) {
	var params balanceParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, rpcErr := decodeAddressParam(params.Address, "account")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	balance, err := s.ledger.GetBalance(addr)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, BalanceResult{Address: addr.String(), Balance: bigString(balance)})
}
