package rpc

import "net/http"

type creatorProfileParams struct {
	Caller      string `json:"caller"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type creatorLookupParams struct {
	Address string `json:"address"`
}

func (s *Server) handleCreatorRegister(w http.ResponseWriter, req *RPCRequest) {
	var params creatorProfileParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	creator, err := s.ledger.RegisterCreator(caller, params.Name, params.Description)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatCreator(creator, true))
}

func (s *Server) handleCreatorUpdate(w http.ResponseWriter, req *RPCRequest) {
	var params creatorProfileParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	creator, err := s.ledger.UpdateCreator(caller, params.Name, params.Description)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatCreator(creator, true))
}

// handleCreatorGet never fails on unknown addresses: it returns a
// zero-valued profile with registered=false. content_get and room_get do
// fail on unknown ids; the asymmetry matches the reference contract.
func (s *Server) handleCreatorGet(w http.ResponseWriter, req *RPCRequest) {
	var params creatorLookupParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, rpcErr := decodeAddressParam(params.Address, "creator")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	creator, registered, err := s.ledger.GetCreator(addr)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatCreator(creator, registered))
}

func (s *Server) handleCreatorIsRegistered(w http.ResponseWriter, req *RPCRequest) {
	var params creatorLookupParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, rpcErr := decodeAddressParam(params.Address, "creator")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	registered, err := s.ledger.IsCreatorRegistered(addr)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, map[string]bool{"registered": registered})
}

func (s *Server) handleCreatorFeatured(w http.ResponseWriter, req *RPCRequest) {
	addrs, err := s.ledger.FeaturedCreators()
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	out := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, addr.String())
	}
	s.writeOK(w, req, out)
}
