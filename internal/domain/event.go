package domain

import "time"

// EventType names an automation trigger. Values are dotted
// "<entity>.<action>" strings and appear verbatim in webhook payloads.
type EventType string

const (
	EventUserVerified    EventType = "user.verified"
	EventUserRejected    EventType = "user.rejected"
	EventCampaignInvite  EventType = "campaign.invite"
	EventPaymentReceived EventType = "payment.received"
)

// IsValid returns true if the event type is one of the defined constants.
func (t EventType) IsValid() bool {
	switch t {
	case EventUserVerified, EventUserRejected, EventCampaignInvite, EventPaymentReceived:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (t EventType) String() string {
	return string(t)
}

// Event is an automation trigger emitted by the application layer. Payload
// carries event-specific data for notification templates and webhook bodies.
type Event struct {
	Type       EventType
	UserID     string
	Email      string
	Name       string
	Payload    map[string]any
	OccurredAt time.Time
}
