package models

// Frame is one still image accepted by the capture gate.
type Frame struct {
	Image     []byte
	MimeType  string
	Reference string
}
