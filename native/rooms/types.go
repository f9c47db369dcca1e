package rooms

// Room is the metadata record for a live session. It tracks presence as a
// bare counter and a live flag; real-time media never touches the ledger.
type Room struct {
	ID               string   `json:"id"`
	Creator          [20]byte `json:"creator"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	HuddleLink       string   `json:"huddleLink"`
	CreatedAt        int64    `json:"createdAt"`
	ParticipantCount uint64   `json:"participantCount"`
	IsLive           bool     `json:"isLive"`
}

// Clone returns a copy of the room record.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
