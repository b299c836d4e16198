package domain

// ChatMessage is the provider-agnostic chat message shape used by the
// dispatcher and LLM integrations.
type ChatMessage struct {
	Role    string
	Content string
	Image   *Image
}

// Image is inline image data attached to a chat message.
type Image struct {
	MIMEType string
	Data     []byte
}
