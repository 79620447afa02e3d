package wyoming

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlr-robotics/gpsrd/internal/config"
)

// fakePiper accepts one connection, checks the synthesize request, and
// streams back a fixed PCM clip as Wyoming audio events.
func fakePiper(t *testing.T, pcm []byte) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		evt, _, err := readEvent(conn)
		if err != nil || evt.Type != "synthesize" {
			return
		}

		_ = writeEvent(conn, wyomingEvent{Type: "audio-start", Data: map[string]any{
			"rate": float64(16000), "channels": float64(1), "width": float64(2),
		}}, nil)
		_ = writeEvent(conn, wyomingEvent{Type: "audio-chunk"}, pcm[:len(pcm)/2])
		_ = writeEvent(conn, wyomingEvent{Type: "audio-chunk"}, pcm[len(pcm)/2:])
		_ = writeEvent(conn, wyomingEvent{Type: "audio-stop"}, nil)
	}()

	return ln.Addr().String()
}

func TestSpeakSynthesizesAndPostsWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	endpoint := fakePiper(t, pcm)

	var posted []byte
	playback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "audio/wav", r.Header.Get("Content-Type"))
		posted, _ = io.ReadAll(r.Body)
	}))
	defer playback.Close()

	s, err := New(config.WyomingConfig{
		Endpoint:    endpoint,
		Voice:       "en_US-lessac-medium",
		PlaybackURL: playback.URL,
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Speak(context.Background(), "I parsed the command"))

	require.Len(t, posted, 44+len(pcm))
	assert.Equal(t, "RIFF", string(posted[0:4]))
	assert.Equal(t, "WAVE", string(posted[8:12]))
	assert.Equal(t, pcm, posted[44:])
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(posted[24:28]))
}

func TestSpeakReportsPiperError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if _, _, err := readEvent(conn); err != nil {
			return
		}
		_ = writeEvent(conn, wyomingEvent{Type: "error", Data: map[string]any{
			"text": "voice not found",
		}}, nil)
	}()

	s, err := New(config.WyomingConfig{Endpoint: ln.Addr().String(), PlaybackURL: "http://127.0.0.1:1/play"})
	require.NoError(t, err)

	err = s.Speak(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voice not found")
}

func TestSpeakReportsPlaybackFailure(t *testing.T) {
	endpoint := fakePiper(t, []byte{0, 0})
	playback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "playback preempted", http.StatusConflict)
	}))
	defer playback.Close()

	s, err := New(config.WyomingConfig{Endpoint: endpoint, PlaybackURL: playback.URL})
	require.NoError(t, err)

	err = s.Speak(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 409")
}

func TestNewValidation(t *testing.T) {
	_, err := New(config.WyomingConfig{Endpoint: "localhost:10200"})
	require.Error(t, err, "missing playback URL")

	_, err = New(config.WyomingConfig{PlaybackURL: "http://localhost:8091/play"})
	require.Error(t, err, "missing endpoint")

	s, err := New(config.WyomingConfig{Endpoint: "tcp://localhost:10200", PlaybackURL: "http://localhost:8091/play"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:10200", s.endpoint)
}

func TestSpeakRejectsEmptyPhrase(t *testing.T) {
	s, err := New(config.WyomingConfig{Endpoint: "localhost:10200", PlaybackURL: "http://localhost:8091/play"})
	require.NoError(t, err)
	require.Error(t, s.Speak(context.Background(), ""))
}

func TestEventRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("pcm data")
	require.NoError(t, writeEvent(&buf, wyomingEvent{
		Type: "audio-chunk",
		Data: map[string]any{"rate": float64(22050)},
	}, payload))

	evt, got, err := readEvent(&buf)
	require.NoError(t, err)
	assert.Equal(t, "audio-chunk", evt.Type)
	assert.Equal(t, float64(22050), evt.Data["rate"])
	assert.Equal(t, payload, got)
}

func TestPCMToWAVHeader(t *testing.T) {
	pcm := make([]byte, 10)
	wav := pcmToWAV(pcm, 22050, 1, 2)

	require.Len(t, wav, 44+len(pcm))
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]))      // PCM format
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))      // channels
	assert.Equal(t, uint32(22050), binary.LittleEndian.Uint32(wav[24:28]))  // sample rate
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(wav[28:32]))  // byte rate
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))     // bits per sample
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav[40:44]))
}
