package rpc

import "net/http"

type roomCreateParams struct {
	Caller      string `json:"caller"`
	Title       string `json:"title"`
	Description string `json:"description"`
	HuddleLink  string `json:"huddleLink"`
}

type roomStatusParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
	IsLive bool   `json:"isLive"`
}

type roomPresenceParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
}

type roomGetParams struct {
	ID string `json:"id"`
}

type roomByCreatorParams struct {
	Address string `json:"address"`
}

func (s *Server) handleRoomCreate(w http.ResponseWriter, req *RPCRequest) {
	var params roomCreateParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	room, err := s.ledger.CreateLiveRoom(caller, params.Title, params.Description, params.HuddleLink)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatRoom(room))
}

func (s *Server) handleRoomSetStatus(w http.ResponseWriter, req *RPCRequest) {
	var params roomStatusParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	room, err := s.ledger.UpdateLiveRoomStatus(caller, params.ID, params.IsLive)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatRoom(room))
}

func (s *Server) handleRoomJoin(w http.ResponseWriter, req *RPCRequest) {
	var params roomPresenceParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	room, err := s.ledger.JoinLiveRoom(caller, params.ID)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatRoom(room))
}

func (s *Server) handleRoomLeave(w http.ResponseWriter, req *RPCRequest) {
	var params roomPresenceParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeAddressParam(params.Caller, "caller")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	room, err := s.ledger.LeaveLiveRoom(caller, params.ID)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatRoom(room))
}

func (s *Server) handleRoomGet(w http.ResponseWriter, req *RPCRequest) {
	var params roomGetParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	room, err := s.ledger.GetLiveRoom(params.ID)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, formatRoom(room))
}

func (s *Server) handleRoomActive(w http.ResponseWriter, req *RPCRequest) {
	ids, err := s.ledger.ActiveLiveRooms()
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, ids)
}

func (s *Server) handleRoomByCreator(w http.ResponseWriter, req *RPCRequest) {
	var params roomByCreatorParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, rpcErr := decodeAddressParam(params.Address, "creator")
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	ids, err := s.ledger.CreatorLiveRooms(addr)
	if err != nil {
		s.writeLedgerError(w, req, err)
		return
	}
	s.writeOK(w, req, ids)
}
