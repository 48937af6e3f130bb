package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GiftMessageGenerator drafts a gift message for a food gift package.
// It is an optional collaborator: failures degrade to an empty, editable
// message and never block checkout.
type GiftMessageGenerator interface {
	GenerateGiftMessage(occasion, recipient string) (string, error)
}

// GeminiService drafts gift messages with Google's Gemini API
type GeminiService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiService creates a Gemini-backed gift message generator
func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		baseURL: "https://generativelanguage.googleapis.com",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBaseURL overrides the Gemini API endpoint (used in tests)
func (s *GeminiService) SetBaseURL(url string) {
	s.baseURL = url
}

type geminiRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateGiftMessage asks Gemini for a short gift message draft
func (s *GeminiService) GenerateGiftMessage(occasion, recipient string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("gemini api key not configured")
	}

	if occasion == "" {
		occasion = "General gifting"
	}
	if recipient == "" {
		recipient = "Someone special"
	}

	prompt := fmt.Sprintf(`Generate a short, heartfelt gift message (2-3 sentences max, under 150 characters) for a food/sweets gift package.
Occasion: %s
Recipient: %s
The gift contains traditional Indian sweets, snacks, or cold-pressed oils from "Susvada" brand.
Write ONLY the message text, no quotes, no labels, no explanation. Keep it warm and personal.`, occasion, recipient)

	var req geminiRequest
	req.Contents = make([]struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}, 1)
	req.Contents[0].Parts = append(req.Contents[0].Parts, struct {
		Text string `json:"text"`
	}{Text: prompt})
	req.GenerationConfig.Temperature = 0.9
	req.GenerationConfig.MaxOutputTokens = 100

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/gemini-1.5-flash:generateContent?key=%s", s.baseURL, s.apiKey)
	resp, err := s.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	message := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if message == "" {
		return "", fmt.Errorf("gemini returned an empty message")
	}
	return message, nil
}

// MockGiftMessageGenerator is a canned GiftMessageGenerator for testing
type MockGiftMessageGenerator struct {
	Message string
	Err     error
}

// GenerateGiftMessage returns the canned message or error
func (m *MockGiftMessageGenerator) GenerateGiftMessage(occasion, recipient string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Message, nil
}
