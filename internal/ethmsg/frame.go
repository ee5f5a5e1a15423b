package ethmsg

import (
	"fmt"
	"strconv"
)

// MessagePrefix is the EIP-191 version 0x45 header.
const MessagePrefix = "\x19Ethereum Signed Message:\n"

const (
	// maxLengthDigits is enough for the decimal length of MaxMessageLen.
	maxLengthDigits = 4
	frameCapacity   = len(MessagePrefix) + maxLengthDigits + MaxMessageLen
)

// MaxMessageLen must fit in maxLengthDigits decimal digits.
const _ = uint(9999 - MaxMessageLen)

// FramedMessage is the exact byte sequence that gets hashed:
// MessagePrefix ++ decimal(len(message)) ++ message.
type FramedMessage struct {
	buf [frameCapacity]byte
	n   int

	// PayloadOffset is where the raw message starts, i.e. the length of the
	// prefix plus the length digits as written.
	PayloadOffset int
}

// Frame builds the EIP-191 framing of message in a fixed-size buffer.
func Frame(message []byte) (*FramedMessage, error) {
	if len(message) > MaxMessageLen {
		return nil, fmt.Errorf("%w: message is %d bytes, max %d", ErrInvalidInput, len(message), MaxMessageLen)
	}

	f := &FramedMessage{}
	n := copy(f.buf[:], MessagePrefix)

	// Capacity is capped so a longer number could never land in buf.
	digits := strconv.AppendInt(f.buf[n:n:n+maxLengthDigits], int64(len(message)), 10)
	if len(digits) > maxLengthDigits {
		return nil, fmt.Errorf("%w: length prefix overflows frame", ErrInvalidInput)
	}
	n += len(digits)
	f.PayloadOffset = n

	if len(f.buf)-n < len(message) {
		return nil, fmt.Errorf("%w: message overflows frame", ErrInvalidInput)
	}
	n += copy(f.buf[n:], message)
	f.n = n

	return f, nil
}

// Bytes returns the framed message. The slice aliases the frame buffer.
func (f *FramedMessage) Bytes() []byte {
	return f.buf[:f.n]
}

// Payload returns the raw message portion of the frame.
func (f *FramedMessage) Payload() []byte {
	return f.buf[f.PayloadOffset:f.n]
}

// Len returns the number of framed bytes.
func (f *FramedMessage) Len() int {
	return f.n
}
