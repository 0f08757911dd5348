package relay

// Message is the inbound payload the relay posts to the webhook. Field names
// match what whatsapp-web.js exposes on its message object.
type Message struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Body      string `json:"body"`
	IsGroup   bool   `json:"isGroup"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// ReplyTarget is where command replies go: the group chat for group
// messages, the sender otherwise.
func (m Message) ReplyTarget() string {
	if m.IsGroup {
		return m.To
	}
	return m.From
}
