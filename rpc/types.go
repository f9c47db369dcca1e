package rpc

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"decentraspace/core"
	"decentraspace/crypto"
	"decentraspace/native/content"
	"decentraspace/native/creators"
	"decentraspace/native/rooms"
	"decentraspace/native/tipping"
	"decentraspace/observability/metrics"
)

// CreatorResult mirrors the creator record for RPC consumers.
type CreatorResult struct {
	Address       string `json:"address"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	TotalEarnings string `json:"totalEarnings"`
	ContentCount  uint64 `json:"contentCount"`
	LiveRoomCount uint64 `json:"liveRoomCount"`
	CreatedAt     int64  `json:"createdAt"`
	Registered    bool   `json:"registered"`
}

// ContentResult mirrors the content record for RPC consumers.
type ContentResult struct {
	ID           string `json:"id"`
	Creator      string `json:"creator"`
	Title        string `json:"title"`
	CID          string `json:"cid"`
	Timestamp    int64  `json:"timestamp"`
	TipsReceived string `json:"tipsReceived"`
	Views        uint64 `json:"views"`
}

// RoomResult mirrors the live-room record for RPC consumers.
type RoomResult struct {
	ID               string `json:"id"`
	Creator          string `json:"creator"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	HuddleLink       string `json:"huddleLink"`
	CreatedAt        int64  `json:"createdAt"`
	ParticipantCount uint64 `json:"participantCount"`
	IsLive           bool   `json:"isLive"`
}

// TipResult summarises a settled tip.
type TipResult struct {
	Path     string `json:"path"`
	TargetID string `json:"targetId,omitempty"`
	Creator  string `json:"creator"`
	From     string `json:"from"`
	Amount   string `json:"amount"`
	TippedAt int64  `json:"tippedAt"`
}

// StatsResult mirrors the derived platform aggregates.
type StatsResult struct {
	CreatorsCount   uint64 `json:"creatorsCount"`
	ContentCount    uint64 `json:"contentCount"`
	LiveRoomsCount  uint64 `json:"liveRoomsCount"`
	TotalTipsAmount string `json:"totalTipsAmount"`
}

// BalanceResult reports an account's spendable balance.
type BalanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func formatAddress(raw [20]byte) string {
	return crypto.AddressFromRaw(raw).String()
}

func formatCreator(c *creators.Creator, registered bool) CreatorResult {
	return CreatorResult{
		Address:       formatAddress(c.Address),
		Name:          c.Name,
		Description:   c.Description,
		TotalEarnings: bigString(c.TotalEarnings),
		ContentCount:  c.ContentCount,
		LiveRoomCount: c.LiveRoomCount,
		CreatedAt:     c.CreatedAt,
		Registered:    registered,
	}
}

func formatContent(c *content.Content) ContentResult {
	return ContentResult{
		ID:           c.ID,
		Creator:      formatAddress(c.Creator),
		Title:        c.Title,
		CID:          c.CID,
		Timestamp:    c.Timestamp,
		TipsReceived: bigString(c.TipsReceived),
		Views:        c.Views,
	}
}

func formatRoom(r *rooms.Room) RoomResult {
	return RoomResult{
		ID:               r.ID,
		Creator:          formatAddress(r.Creator),
		Title:            r.Title,
		Description:      r.Description,
		HuddleLink:       r.HuddleLink,
		CreatedAt:        r.CreatedAt,
		ParticipantCount: r.ParticipantCount,
		IsLive:           r.IsLive,
	}
}

func formatReceipt(r *tipping.Receipt) TipResult {
	return TipResult{
		Path:     string(r.Path),
		TargetID: r.TargetID,
		Creator:  formatAddress(r.Creator),
		From:     formatAddress(r.From),
		Amount:   bigString(r.Amount),
		TippedAt: r.TippedAt,
	}
}

func formatStats(s *core.PlatformStats) StatsResult {
	return StatsResult{
		CreatorsCount:   s.CreatorsCount,
		ContentCount:    s.ContentCount,
		LiveRoomsCount:  s.LiveRoomsCount,
		TotalTipsAmount: bigString(s.TotalTipsAmount),
	}
}

// decodeParams unmarshals the single parameter object every method takes.
func decodeParams(req *RPCRequest, out interface{}) *RPCError {
	if len(req.Params) != 1 {
		return &RPCError{Code: codeInvalidParams, Message: "exactly one parameter object expected"}
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return &RPCError{Code: codeInvalidParams, Message: "invalid parameter object", Data: err.Error()}
	}
	return nil
}

func decodeAddressParam(value, field string) (crypto.Address, *RPCError) {
	addr, err := crypto.DecodeAddress(value)
	if err != nil {
		return crypto.Address{}, &RPCError{Code: codeInvalidParams, Message: "invalid " + field + " address", Data: err.Error()}
	}
	return addr, nil
}

func decodeAmountParam(value string) (*big.Int, *RPCError) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, &RPCError{Code: codeInvalidParams, Message: "invalid amount", Data: value}
	}
	return amount, nil
}

// errorFor maps engine sentinels to distinct JSON-RPC error codes so
// callers can tell which invariant was violated.
func errorFor(err error) (int, *RPCError) {
	switch {
	case errors.Is(err, creators.ErrAlreadyRegistered):
		return http.StatusConflict, &RPCError{Code: codeAlreadyRegistered, Message: "already registered"}
	case errors.Is(err, creators.ErrNotRegistered):
		return http.StatusForbidden, &RPCError{Code: codeNotRegistered, Message: "not registered"}
	case errors.Is(err, creators.ErrInvalidInput),
		errors.Is(err, content.ErrInvalidInput),
		errors.Is(err, rooms.ErrInvalidInput),
		errors.Is(err, tipping.ErrInvalidAmount):
		return http.StatusBadRequest, &RPCError{Code: codeInvalidInput, Message: "invalid input"}
	case errors.Is(err, content.ErrNotFound), errors.Is(err, rooms.ErrNotFound):
		return http.StatusNotFound, &RPCError{Code: codeNotFound, Message: "not found"}
	case errors.Is(err, rooms.ErrUnauthorized):
		return http.StatusForbidden, &RPCError{Code: codeOwnerOnly, Message: "caller does not own entity"}
	case errors.Is(err, rooms.ErrRoomNotLive):
		return http.StatusConflict, &RPCError{Code: codeRoomNotLive, Message: "room not live"}
	case errors.Is(err, tipping.ErrSelfTip):
		return http.StatusBadRequest, &RPCError{Code: codeSelfTip, Message: "cannot tip yourself"}
	case errors.Is(err, tipping.ErrTransferFailed):
		return http.StatusConflict, &RPCError{Code: codeTransferFailed, Message: "transfer failed"}
	default:
		return http.StatusInternalServerError, &RPCError{Code: codeServerError, Message: "internal error", Data: err.Error()}
	}
}

func (s *Server) writeLedgerError(w http.ResponseWriter, req *RPCRequest, err error) {
	status, rpcErr := errorFor(err)
	metrics.RPC().ObserveRequest(req.Method, "error")
	writeError(w, status, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
}

func (s *Server) writeOK(w http.ResponseWriter, req *RPCRequest, result interface{}) {
	metrics.RPC().ObserveRequest(req.Method, "ok")
	writeResult(w, req.ID, result)
}
