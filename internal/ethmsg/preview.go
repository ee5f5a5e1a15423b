package ethmsg

import "encoding/hex"

const (
	// Bytes in [printableMin, printableMax] count as text. The lower bound is
	// 20, not 32: bytes 20-31 are shown as text.
	printableMin = 20
	printableMax = 127

	textPreviewMax  = 67
	textPreviewEdge = 32
	hexPreviewMax   = 33
	hexPreviewEdge  = 16

	ellipsis        = "..."
	previewCapacity = 2*textPreviewEdge + len(ellipsis)
)

const (
	TitleText = "Sign\nETH Message"
	TitleHex  = "Sign\nETH Message (hex)"
)

// Both truncated forms must fill the preview buffer exactly.
const (
	_ = uint(previewCapacity - 4*hexPreviewEdge - len(ellipsis))
	_ = uint(4*hexPreviewEdge + len(ellipsis) - previewCapacity)
	_ = uint(previewCapacity - textPreviewMax)
	_ = uint(previewCapacity - 2*hexPreviewMax)
)

// Preview is what the user is asked to approve for a message.
type Preview struct {
	Title string
	Body  string
	// Hex reports whether Body is a hex encoding rather than literal text.
	Hex bool
}

// IsPrintable reports whether every byte of message lies in [20, 127].
func IsPrintable(message []byte) bool {
	for _, b := range message {
		if b < printableMin || b > printableMax {
			return false
		}
	}
	return true
}

// RenderPreview produces a preview of at most 67 characters. Long text keeps
// its first and last 32 bytes, long binary the hex of its first and last 16.
func RenderPreview(message []byte) Preview {
	var body [previewCapacity]byte
	var n int

	printable := IsPrintable(message)
	switch {
	case printable && len(message) > textPreviewMax:
		n = copy(body[:], message[:textPreviewEdge])
		n += copy(body[n:], ellipsis)
		n += copy(body[n:], message[len(message)-textPreviewEdge:])
	case !printable && len(message) > hexPreviewMax:
		n = hex.Encode(body[:], message[:hexPreviewEdge])
		n += copy(body[n:], ellipsis)
		n += hex.Encode(body[n:], message[len(message)-hexPreviewEdge:])
	case printable:
		n = copy(body[:], message)
	default:
		n = hex.Encode(body[:], message)
	}

	if printable {
		return Preview{Title: TitleText, Body: string(body[:n])}
	}
	return Preview{Title: TitleHex, Body: string(body[:n]), Hex: true}
}
