package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStubServer поднимает OpenAI-совместимый сервер, который всегда
// возвращает content в единственном choice.
func newStubServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.NotEmpty(t, payload["messages"])

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestPersonaReply_UsesServerResponse(t *testing.T) {
	srv := newStubServer(t, "Welcome to my dungeon, darling.")
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	reply := client.PersonaReply(context.Background(), "Vayda", "strict domme", "hello", []string{"fan: hi"})
	assert.Equal(t, "Welcome to my dungeon, darling.", reply)
}

func TestPersonaReply_FallbackWhenUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-model")

	reply := client.PersonaReply(context.Background(), "Vayda", "strict domme", "hello", nil)
	assert.Equal(t, "I'm having trouble hearing you darling...", reply)
}

func TestPersonaReply_FallbackWhenBaseURLEmpty(t *testing.T) {
	client := NewClient("", "")

	reply := client.PersonaReply(context.Background(), "Vayda", "strict domme", "hello", nil)
	assert.Equal(t, "I'm having trouble hearing you darling...", reply)
}

func TestCoPilot_ParsesVerdict(t *testing.T) {
	srv := newStubServer(t, `Here is my analysis:
`+"```json"+`
{ "action": "UPSELL", "suggestion": "Tip 50 for a dice roll" }
`+"```")
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	advice := client.CoPilot(context.Background(), []string{"fan: nice show"}, 42)

	assert.Equal(t, AdviceUpsell, advice.Action)
	assert.Equal(t, "Tip 50 for a dice roll", advice.Suggestion)
}

func TestCoPilot_UnknownActionDegradesToNone(t *testing.T) {
	srv := newStubServer(t, `{"action": "NUKE", "suggestion": "do something"}`)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	advice := client.CoPilot(context.Background(), []string{"fan: hi"}, 1)

	assert.Equal(t, AdviceNone, advice.Action)
}

func TestCoPilot_FallbackWhenUnreachable(t *testing.T) {
	client := NewClient("", "")

	advice := client.CoPilot(context.Background(), []string{"fan: hi"}, 1)
	assert.Equal(t, AdviceNone, advice.Action)
	assert.Equal(t, "Keep being fabulous.", advice.Suggestion)
}

func TestTranslate_FallbackReturnsOriginal(t *testing.T) {
	client := NewClient("", "")

	assert.Equal(t, "привет", client.Translate(context.Background(), "привет", "English"))
}

func TestContentTags_ParsesArray(t *testing.T) {
	srv := newStubServer(t, `Sure! ["Redhead", "Latex", "Domme"]`)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	tags := client.ContentTags(context.Background(), "redhead in latex")
	assert.Equal(t, []string{"Redhead", "Latex", "Domme"}, tags)
}

func TestContentTags_FallbackWhenUnreachable(t *testing.T) {
	client := NewClient("", "")

	tags := client.ContentTags(context.Background(), "anything")
	assert.Equal(t, []string{"Featured", "New"}, tags)
}

func TestWatermarkID_Fallback(t *testing.T) {
	client := NewClient("", "")

	id := client.WatermarkID(context.Background(), "Mistress Vayda")
	assert.Equal(t, "DGN-MISTRESSVAYDA-PROTECTED", id)
}

func TestWatermarkID_TrimsQuotes(t *testing.T) {
	srv := newStubServer(t, `"DGN-VAYDA-X92-SECURE"`)
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	assert.Equal(t, "DGN-VAYDA-X92-SECURE", client.WatermarkID(context.Background(), "Vayda"))
}

func TestChatCompletion_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{"error": "rate limited"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	_, err := client.chatCompletion(context.Background(), []map[string]string{{"role": "user", "content": "hi"}})
	assert.Error(t, err)
}

func TestParseJSONFromText(t *testing.T) {
	parsed := parseJSONFromText(`noise {"action":"BAN"} more noise`)
	assert.Equal(t, "BAN", parsed["action"])

	parsed = parseJSONFromText("no json here")
	assert.Empty(t, parsed)
}

func TestParseJSONArrayFromText(t *testing.T) {
	tags := parseJSONArrayFromText("```json\n[\"A\", \"B\"]\n```")
	assert.Equal(t, []string{"A", "B"}, tags)

	assert.Nil(t, parseJSONArrayFromText("nothing"))
}
