package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guesspro/guesspro-go/internal/model"
)

func TestFormatEvent(t *testing.T) {
	frame := FormatEvent(model.EventAllReady, []byte(`{}`))
	assert.Equal(t, "event: allReady\ndata: {}\n\n", string(frame))
}

func TestFormatEventMultiline(t *testing.T) {
	frame := FormatEvent(model.EventRoomState, []byte("line1\nline2"))
	assert.Equal(t, "event: roomState\ndata: line1\ndata: line2\n\n", string(frame))
}

func TestMarshalEvent(t *testing.T) {
	frame, err := MarshalEvent(model.EventGamerLeft, model.GamerLeftPayload{GamerID: "g-1"})
	require.NoError(t, err)
	assert.Equal(t, "event: gamerLeft\ndata: {\"gamerId\":\"g-1\"}\n\n", string(frame))
}

func TestHTTPChannelSendAfterClose(t *testing.T) {
	ch := NewHTTPChannel()
	ch.Close()
	err := ch.Send([]byte("event: heartbeat\ndata: {}\n\n"))
	assert.ErrorIs(t, err, model.ErrChannelClosed)

	// Closing again is a no-op
	ch.Close()
}

func TestHTTPChannelBufferFull(t *testing.T) {
	ch := NewHTTPChannel()
	frame := []byte("event: heartbeat\ndata: {}\n\n")
	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, ch.Send(frame))
	}
	assert.ErrorIs(t, ch.Send(frame), model.ErrChannelFull)
}
