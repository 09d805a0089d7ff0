package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, data interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"code":    200,
		"message": "ok",
		"data":    data,
	})
	require.NoError(t, err)
}

func TestSendTextMultipartFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/chat/text", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "I have a headache", r.FormValue("message"))
		assert.Equal(t, "user-1", r.FormValue("user_id"))
		assert.Equal(t, "sess-1", r.FormValue("session_id"))
		assert.Equal(t, "en", r.FormValue("language"))
		assert.Equal(t, "conv-1", r.FormValue("conversation_id"))

		writeEnvelope(t, w, Response{
			ConversationId: "conv-1",
			Response:       "Rest and hydrate",
			Confidence:     &Confidence{Score: 0.7, Level: "medium"},
		})
	}))
	defer srv.Close()

	transport := NewTransport(srv.URL, "user-1", "sess-1", nil)
	res, err := transport.SendText(context.Background(), "conv-1", "I have a headache", "en")
	require.NoError(t, err)
	assert.Equal(t, "Rest and hydrate", res.Response)
	assert.Equal(t, "conv-1", res.ConversationId)
	require.NotNil(t, res.Confidence)
	assert.Equal(t, "medium", res.Confidence.Level)
}

func TestSendTextOmitsEmptyConversationId(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, present := r.MultipartForm.Value["conversation_id"]
		assert.False(t, present, "conversation_id must be omitted when unset")
		writeEnvelope(t, w, Response{Response: "ok"})
	}))
	defer srv.Close()

	transport := NewTransport(srv.URL, "user-1", "sess-1", nil)
	_, err := transport.SendText(context.Background(), "", "hello", "en")
	require.NoError(t, err)
}

func TestSendAudioFilePart(t *testing.T) {
	audio := []byte{0x52, 0x49, 0x46, 0x46}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/chat/audio", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("audio_file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "note.wav", header.Filename)

		writeEnvelope(t, w, Response{Response: "heard you"})
	}))
	defer srv.Close()

	transport := NewTransport(srv.URL, "user-1", "sess-1", nil)
	res, err := transport.SendAudio(context.Background(), "", audio, "note.wav", "en")
	require.NoError(t, err)
	assert.Equal(t, "heard you", res.Response)
}

func TestSendImageCarriesCaption(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/chat/image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		_, _, err := r.FormFile("image_file")
		require.NoError(t, err)
		assert.Equal(t, "what is this rash", r.FormValue("message"))

		writeEnvelope(t, w, Response{Response: "see a dermatologist"})
	}))
	defer srv.Close()

	transport := NewTransport(srv.URL, "user-1", "sess-1", nil)
	res, err := transport.SendImage(context.Background(), "", []byte{0xFF, 0xD8}, "rash.jpg", "what is this rash", "en")
	require.NoError(t, err)
	assert.Equal(t, "see a dermatologist", res.Response)
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/audio/transcribe", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		_, _, err := r.FormFile("audio_file")
		require.NoError(t, err)

		writeEnvelope(t, w, Transcription{Text: "I feel dizzy", Language: "en"})
	}))
	defer srv.Close()

	transport := NewTransport(srv.URL, "user-1", "sess-1", nil)
	res, err := transport.Transcribe(context.Background(), []byte{0x00}, "clip.wav", "en")
	require.NoError(t, err)
	assert.Equal(t, "I feel dizzy", res.Text)
}

func TestNonSuccessStatusYieldsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"code":    404,
			"message": "record not found",
		})
	}))
	defer srv.Close()

	transport := NewTransport(srv.URL, "user-1", "sess-1", nil)
	_, err := transport.SendText(context.Background(), "", "hello", "en")
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusNotFound, terr.StatusCode)
	assert.Equal(t, "record not found", terr.Message)
}

func TestNetworkFailureYieldsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	transport := NewTransport(srv.URL, "user-1", "sess-1", nil)
	_, err := transport.SendText(context.Background(), "", "hello", "en")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.StatusCode)
	assert.Error(t, terr.Err)
}

func TestGetConversationMapsStoredMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/chat/conversation/conv-1", r.URL.Path)
		writeEnvelope(t, w, map[string]interface{}{
			"id":    "conv-1",
			"title": "Headache chat",
			"messages": []map[string]interface{}{
				{"id": "m1", "role": "user", "content": "hi", "created_at": "2026-01-02T15:04:05Z"},
				{"id": "m2", "role": "assistant", "content": "hello", "created_at": "2026-01-02T15:04:06Z", "confidence": map[string]interface{}{"score": 0.9, "level": "high"}},
			},
		})
	}))
	defer srv.Close()

	transport := NewTransport(srv.URL, "user-1", "sess-1", nil)
	conv, err := transport.GetConversation(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "Headache chat", conv.Title)
	require.Len(t, conv.Messages, 2)
	assert.False(t, conv.Messages[0].Timestamp.IsZero())
	require.NotNil(t, conv.Messages[1].Confidence)
	assert.Equal(t, VariantAssistantHigh, Classify(conv.Messages[1]))
}

func TestSendFeedbackPostsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/chat/feedback", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var fb Feedback
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fb))
		assert.Equal(t, "helpful", fb.FeedbackType)
		assert.Equal(t, 5, fb.Rating)

		writeEnvelope(t, w, map[string]string{"id": "fb-1"})
	}))
	defer srv.Close()

	transport := NewTransport(srv.URL, "user-1", "sess-1", nil)
	err := transport.SendFeedback(context.Background(), Feedback{
		ConversationId: "conv-1",
		MessageId:      "m2",
		FeedbackType:   "helpful",
		Rating:         5,
	})
	require.NoError(t, err)
}

func TestDeleteConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/chat/conversation/conv-1", r.URL.Path)
		writeEnvelope(t, w, nil)
	}))
	defer srv.Close()

	transport := NewTransport(srv.URL, "user-1", "sess-1", nil)
	require.NoError(t, transport.DeleteConversation(context.Background(), "conv-1"))
}
