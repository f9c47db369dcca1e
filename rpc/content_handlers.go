package rpc

import "net/http"

type contentUploadParams struct {
	Caller string `json:"caller"`
	Title  string `json:"title"`
	CID    string `json:"cid"`
}

type contentViewParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
}

type contentGetParams struct {
	ID string `json:"id"`
}

type contentByCreatorParams struct {
	Address string `json:"address"`
}

func (s *Server) handleContentUpload(w http.ResponseWriter, req *RPCRequest) {
	var params contentUploadParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	record, err := s.ledger.UploadContent(caller, params.Title, params.CID)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatContent(record))
}

func (s *Server) handleContentView(w http.ResponseWriter, req *RPCRequest) {
	var params contentViewParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	record, err := s.ledger.ViewContent(caller, params.ID)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatContent(record))
}

func (s *Server) handleContentGet(w http.ResponseWriter, req *RPCRequest) {
	var params contentGetParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	record, err := s.ledger.GetContent(params.ID)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatContent(record))
}

func (s *Server) handleContentLatest(w http.ResponseWriter, req *RPCRequest) {
	ids, err := s.ledger.LatestContent()
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, ids)
}

func (s *Server) handleContentByCreator(w http.ResponseWriter, req *RPCRequest) {
	var params contentByCreatorParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, rpcErr := decodeAddressParam(params.Address, "creator")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	ids, err := s.ledger.CreatorContents(addr)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, ids)
}
