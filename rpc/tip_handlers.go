package rpc

import "net/http"

type tipCreatorParams struct {
	Caller  string `json:"caller"`
	Creator string `json:"creator"`
	Amount  string `json:"amount"`
}

type tipTargetParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

func (s *Server) handleTipCreator(w http.ResponseWriter, req *RPCRequest) {
	var params tipCreatorParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	target, rpcErr := decodeAddressParam(params.Creator, "creator")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	amount, rpcErr := decodeAmountParam(params.Amount)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	receipt, err := s.ledger.TipCreator(caller, target, amount)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatReceipt(receipt))
}

func (s *Server) handleTipContent(w http.ResponseWriter, req *RPCRequest) {
	var params tipTargetParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	amount, rpcErr := decodeAmountParam(params.Amount)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	receipt, err := s.ledger.TipContent(caller, params.ID, amount)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatReceipt(receipt))
}

func (s *Server) handleTipRoom(w http.ResponseWriter, req *RPCRequest) {
	var params tipTargetParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	amount, rpcErr := decodeAmountParam(params.Amount)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	receipt, err := s.ledger.TipLiveRoom(caller, params.ID, amount)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatReceipt(receipt))
}
