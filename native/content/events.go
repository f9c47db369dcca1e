package content

import (
	"strconv"

	"decentraspace/core/events"
	"decentraspace/core/types"
	"decentraspace/native/creators"
)

const (
	// EventTypePublished is emitted when a creator publishes new content.
	EventTypePublished = "space.content.published"
	// EventTypeViewed is emitted when anyone views a piece of content.
	EventTypeViewed = "space.content.viewed"
)

// PublishedEvent returns the structured payload for a publication.
func PublishedEvent(c *Content) events.Event {
	return creators.WrapEvent(&types.Event{
		Type: EventTypePublished,
		Attributes: map[string]string{
			"id":      c.ID,
			"creator": creators.HexAddr(c.Creator),
			"cid":     c.CID,
		},
	})
}

// ViewedEvent returns the structured payload for a view increment.
func ViewedEvent(c *Content, viewer [20]byte) events.Event {
	return creators.WrapEvent(&types.Event{
		Type: EventTypeViewed,
		Attributes: map[string]string{
			"id":     c.ID,
			"viewer": creators.HexAddr(viewer),
			"views":  strconv.FormatUint(c.Views, 10),
		},
	})
}
