// Package ai клиент AI-помощника платформы через OpenAI-совместимый API.
// Используется для персонажей-ботов, ко-пилота модели, перевода чата и
// генерации тегов. Любая ошибка сети деградирует до запасного ответа:
// комната не должна падать из-за недоступного AI.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

// Client клиент OpenAI-совместимого API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт клиента. Ключ берётся из AI_API_KEY.
func NewClient(baseURL, model string) *Client {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  os.Getenv("AI_API_KEY"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// CoPilotAdvice вердикт ко-пилота модели по последним сообщениям чата.
type CoPilotAdvice struct {
	Action     string `json:"action"` // BAN | UPSELL | NONE
	Suggestion string `json:"suggestion"`
}

// Допустимые вердикты ко-пилота
const (
	AdviceBan    = "BAN"
	AdviceUpsell = "UPSELL"
	AdviceNone   = "NONE"
)

// PersonaReply генерирует ответ AI-модели в её персонаже. При любой
// ошибке возвращается нейтральная реплика, а не ошибка.
func (c *Client) PersonaReply(ctx context.Context, name, description, userMessage string, history []string) string {
	system := fmt.Sprintf(`You are roleplaying as a cam model named %s on a website called "THE DUNGEON".
Your persona description is: %q.
The setting is dark, seductive, and playful.
Keep your responses short (under 50 words), flirtatious, and engaging.
Do not be explicitly NSFW in a banned way, but be suggestive and fit the "dungeon" theme.
Interact directly with the user.`, name, description)

	user := userMessage
	if len(history) > 0 {
		user = "Recent Chat History:\n" + strings.Join(history, "\n") + "\n\nUser: " + userMessage
	}

	reply, err := c.chatCompletion(ctx, []map[string]string{
		{"role": "system", "content": system},
		{"role": "user", "content": user},
	})
	if err != nil || strings.TrimSpace(reply) == "" {
		return "I'm having trouble hearing you darling..."
	}
	return strings.TrimSpace(reply)
}

// CoPilot анализирует чат комнаты и советует модели действие:
// бан агрессора, апселл или ничего.
func (c *Client) CoPilot(ctx context.Context, history []string, viewerCount int) CoPilotAdvice {
	if len(history) > 5 {
		history = history[len(history)-5:]
	}

	prompt := fmt.Sprintf(`You are an AI assistant for a cam model on "THE DUNGEON".
Analyze the recent chat history and viewer count (%d).

Chat History:
%s

1. If a user is being rude/harassing, suggest a BAN for 24hrs.
2. If the chat is slow or users are praising, suggest an UPSELL (e.g., "Tip 50 for a dice roll" or "Join private").
3. Otherwise, return NONE.

Return valid JSON only: { "action": "BAN" | "UPSELL" | "NONE", "suggestion": "The text to show the model" }`,
		viewerCount, strings.Join(history, "\n"))

	reply, err := c.chatCompletion(ctx, []map[string]string{
		{"role": "user", "content": prompt},
	})
	if err != nil {
		return CoPilotAdvice{Action: AdviceNone, Suggestion: "Keep being fabulous."}
	}

	var advice CoPilotAdvice
	parsed := parseJSONFromText(reply)
	if action, ok := parsed["action"].(string); ok {
		advice.Action = action
	}
	if suggestion, ok := parsed["suggestion"].(string); ok {
		advice.Suggestion = suggestion
	}

	switch advice.Action {
	case AdviceBan, AdviceUpsell, AdviceNone:
	default:
		advice.Action = AdviceNone
	}
	if advice.Suggestion == "" {
		advice.Suggestion = "Keep being fabulous."
	}
	return advice
}

// Translate переводит сообщение чата. При ошибке возвращается исходный текст.
func (c *Client) Translate(ctx context.Context, text, targetLang string) string {
	prompt := fmt.Sprintf("Translate the following chat message to %s. Preserve the tone and slang if possible. Return ONLY the translated text.\n\nMessage: %q", targetLang, text)

	reply, err := c.chatCompletion(ctx, []map[string]string{
		{"role": "user", "content": prompt},
	})
	if err != nil || strings.TrimSpace(reply) == "" {
		return text
	}
	return strings.TrimSpace(reply)
}

// ContentTags генерирует теги для описания контента.
func (c *Client) ContentTags(ctx context.Context, description string) []string {
	prompt := fmt.Sprintf(`Generate 5-8 one-word tags for a piece of adult/glamour content described as: %q.
Tags should be relevant to categories like: Fetish, Body Type, Vibe, Clothing.
Return strictly a JSON array of strings. Example: ["Redhead", "Latex", "Domme"]`, description)

	reply, err := c.chatCompletion(ctx, []map[string]string{
		{"role": "user", "content": prompt},
	})
	if err != nil {
		return []string{"Featured", "New"}
	}

	tags := parseJSONArrayFromText(reply)
	if len(tags) == 0 {
		return []string{"Model", "Exclusive"}
	}
	return tags
}

// WatermarkID генерирует идентификатор водяного знака для модели.
func (c *Client) WatermarkID(ctx context.Context, modelName string) string {
	fallback := "DGN-" + strings.ToUpper(strings.ReplaceAll(modelName, " ", "")) + "-PROTECTED"

	prompt := fmt.Sprintf(`Generate a short, unique, alphanumeric copyright protection ID string for a creator named %q on the platform "THE DUNGEON".
It should look sophisticated and technical.
Example: "DGN-VAYDA-X92-SECURE"
Return ONLY the string.`, modelName)

	reply, err := c.chatCompletion(ctx, []map[string]string{
		{"role": "user", "content": prompt},
	})
	if err != nil {
		return fallback
	}
	reply = strings.TrimSpace(strings.Trim(strings.TrimSpace(reply), `"`))
	if reply == "" {
		return fallback
	}
	return reply
}

// chatCompletion выполняет запрос к OpenAI-совместимому API.
func (c *Client) chatCompletion(ctx context.Context, messages []map[string]string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("ai: baseURL не задан")
	}

	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"max_tokens":  1024,
		"temperature": 0.7,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := c.baseURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	url += "chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", fmt.Errorf("ai: код ответа %d: %v", resp.StatusCode, errorBody)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("ai: пустой ответ")
	}

	return result.Choices[0].Message.Content, nil
}

var jsonCodeBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// parseJSONFromText извлекает JSON-объект из текста, который может
// содержать markdown или пояснения вокруг.
func parseJSONFromText(text string) map[string]any {
	result := make(map[string]any)

	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart != -1 && jsonEnd != -1 && jsonEnd > jsonStart {
		if err := json.Unmarshal([]byte(text[jsonStart:jsonEnd+1]), &result); err == nil {
			return result
		}
	}

	if match := jsonCodeBlockRe.FindStringSubmatch(text); len(match) > 1 {
		if err := json.Unmarshal([]byte(match[1]), &result); err == nil {
			return result
		}
	}

	return result
}

// parseJSONArrayFromText извлекает JSON-массив строк из текста.
func parseJSONArrayFromText(text string) []string {
	var out []string

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end != -1 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &out); err == nil {
			return out
		}
	}

	if match := jsonCodeBlockRe.FindStringSubmatch(text); len(match) > 1 {
		if err := json.Unmarshal([]byte(match[1]), &out); err == nil {
			return out
		}
	}

	return nil
}
