package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Input - данные заявки, которые уходят на анализ.
type Input struct {
	EmployeePosition string
	DeviceType       string
	Purpose          string
}

type Result struct {
	PriorityScore      float64  `json:"priority_score"`
	Tags               []string `json:"tags"`
	Summary            string   `json:"summary"`
	NeedsClarification bool     `json:"needs_clarification"`
}

type Client interface {
	Analyze(ctx context.Context, in Input) (Result, error)
}

const systemPrompt = `Ты помощник отдела IT, который оценивает заявки сотрудников на выдачу оборудования.
Ответь строго JSON-объектом без пояснений:
{"priority_score": число от 1 до 10, "tags": [строки], "summary": "краткое описание", "needs_clarification": true|false}
priority_score: 10 - срочно и критично для работы, 1 - может подождать.
needs_clarification: true, если цель использования описана неясно.`

// HTTPClient ходит в API в формате chat/completions.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, apiKey, model string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func userMessage(in Input) string {
	return fmt.Sprintf("СОТРУДНИК: %s\nОБОРУДОВАНИЕ: %s\nЦЕЛЬ: %s", in.EmployeePosition, in.DeviceType, in.Purpose)
}

func (c *HTTPClient) Analyze(ctx context.Context, in Input) (Result, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage(in)},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("сервис анализа вернул статус: %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("неверный формат ответа: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Result{}, fmt.Errorf("пустой ответ сервиса анализа")
	}
	return ParseResult(parsed.Choices[0].Message.Content)
}

var fenceRe = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*(.*?)\\s*```\\s*$")

// ParseResult разбирает ответ модели: JSON, возможно обёрнутый в ```json ... ```.
func ParseResult(content string) (Result, error) {
	content = strings.TrimSpace(content)
	if m := fenceRe.FindStringSubmatch(content); m != nil {
		content = m[1]
	}

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return Result{}, fmt.Errorf("ответ модели не является JSON: %w", err)
	}
	result.PriorityScore = clampScore(result.PriorityScore)
	if result.Tags == nil {
		result.Tags = []string{}
	}
	return result, nil
}

func clampScore(score float64) float64 {
	switch {
	case score < 1:
		return 1
	case score > 10:
		return 10
	}
	return score
}
