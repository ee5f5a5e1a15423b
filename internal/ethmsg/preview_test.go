package ethmsg

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrintable(t *testing.T) {
	t.Run("classification boundaries", func(t *testing.T) {
		assert.False(t, IsPrintable([]byte{19}))
		assert.True(t, IsPrintable([]byte{20}))
		assert.True(t, IsPrintable([]byte{31}))
		assert.True(t, IsPrintable([]byte{127}))
		assert.False(t, IsPrintable([]byte{128}))
		assert.False(t, IsPrintable([]byte{0}))
	})

	t.Run("one binary byte taints the message", func(t *testing.T) {
		assert.False(t, IsPrintable([]byte("hello\x00world")))
		assert.True(t, IsPrintable([]byte("hello world")))
	})

	t.Run("empty message is printable", func(t *testing.T) {
		assert.True(t, IsPrintable(nil))
	})
}

func TestRenderPreview(t *testing.T) {
	t.Run("short text renders verbatim", func(t *testing.T) {
		p := RenderPreview([]byte("hello"))
		assert.Equal(t, "hello", p.Body)
		assert.Equal(t, TitleText, p.Title)
		assert.False(t, p.Hex)
	})

	t.Run("67 characters are not truncated", func(t *testing.T) {
		msg := strings.Repeat("A", 67)
		p := RenderPreview([]byte(msg))
		assert.Equal(t, msg, p.Body)
	})

	t.Run("68 characters are truncated", func(t *testing.T) {
		p := RenderPreview([]byte(strings.Repeat("A", 68)))
		assert.Equal(t, strings.Repeat("A", 32)+"..."+strings.Repeat("A", 32), p.Body)
		assert.Len(t, p.Body, 67)
	})

	t.Run("long text keeps head and tail", func(t *testing.T) {
		msg := strings.Repeat("a", 32) + strings.Repeat("m", 500) + strings.Repeat("z", 32)
		p := RenderPreview([]byte(msg))
		assert.Equal(t, strings.Repeat("a", 32)+"..."+strings.Repeat("z", 32), p.Body)
	})

	t.Run("33 binary bytes render as full hex", func(t *testing.T) {
		msg := bytes.Repeat([]byte{0xab}, 33)
		p := RenderPreview(msg)
		assert.Equal(t, hex.EncodeToString(msg), p.Body)
		assert.Len(t, p.Body, 66)
		assert.NotContains(t, p.Body, "...")
		assert.Equal(t, TitleHex, p.Title)
		assert.True(t, p.Hex)
	})

	t.Run("34 binary bytes are truncated", func(t *testing.T) {
		msg := make([]byte, 34)
		for i := range msg {
			msg[i] = byte(0x80 + i)
		}
		p := RenderPreview(msg)
		want := hex.EncodeToString(msg[:16]) + "..." + hex.EncodeToString(msg[18:])
		assert.Equal(t, want, p.Body)
		assert.Len(t, p.Body, 67)
	})

	t.Run("max length binary", func(t *testing.T) {
		msg := bytes.Repeat([]byte{0x00}, MaxMessageLen)
		msg[0] = 0x01
		msg[MaxMessageLen-1] = 0xfe
		p := RenderPreview(msg)
		assert.Equal(t, "01"+strings.Repeat("00", 15)+"..."+strings.Repeat("00", 15)+"fe", p.Body)
	})

	t.Run("control bytes from 20 stay literal", func(t *testing.T) {
		msg := []byte{20, 'o', 'k', 31}
		p := RenderPreview(msg)
		assert.Equal(t, string(msg), p.Body)
		assert.False(t, p.Hex)
	})

	t.Run("empty message renders empty text", func(t *testing.T) {
		p := RenderPreview(nil)
		assert.Equal(t, "", p.Body)
		assert.Equal(t, TitleText, p.Title)
	})
}
