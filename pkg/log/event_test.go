package log

import (
	"bytes"
	"testing"
)

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(9).String(), "UNKNOWN"},
		{LayerTransport.String(), "TRANSPORT"},
		{LayerHandshake.String(), "HANDSHAKE"},
		{LayerAuth.String(), "AUTH"},
		{LayerChannel.String(), "CHANNEL"},
		{Layer(9).String(), "UNKNOWN"},
		{CategoryData.String(), "DATA"},
		{CategoryInterest.String(), "INTEREST"},
		{CategoryState.String(), "STATE"},
		{CategoryError.String(), "ERROR"},
		{RoleClient.String(), "CLIENT"},
		{RoleServer.String(), "SERVER"},
		{StateEntityTransport.String(), "TRANSPORT"},
		{StateEntityAuthenticator.String(), "AUTHENTICATOR"},
		{StateEntityChannel.String(), "CHANNEL"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestNewFrameEventCopiesData(t *testing.T) {
	data := []byte("hello")
	ev := NewFrameEvent(data)
	data[0] = 'j'

	if ev.Size != 5 {
		t.Errorf("Size: got %d, want 5", ev.Size)
	}
	if string(ev.Data) != "hello" {
		t.Errorf("Data: got %q, want %q", ev.Data, "hello")
	}
	if ev.Truncated {
		t.Error("small frame should not be truncated")
	}
}

func TestNewFrameEventTruncates(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, MaxFrameData+100)
	ev := NewFrameEvent(data)

	if ev.Size != MaxFrameData+100 {
		t.Errorf("Size: got %d, want %d", ev.Size, MaxFrameData+100)
	}
	if len(ev.Data) != MaxFrameData {
		t.Errorf("len(Data): got %d, want %d", len(ev.Data), MaxFrameData)
	}
	if !ev.Truncated {
		t.Error("large frame should be truncated")
	}
}
