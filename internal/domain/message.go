package domain

// MaxQuickReplies is the most quick-reply buttons a single message may carry.
const MaxQuickReplies = 13

// QuickReply is a suggested next input shown under a reply. Tapping it sends
// Text as if the user had typed it.
type QuickReply struct {
	Label string
	Text  string
}

// Reply is one outgoing text message.
type Reply struct {
	Text         string
	QuickReplies []QuickReply
}
