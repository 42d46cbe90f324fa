package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"carebridge/internal/models"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// Gemini calls the Gemini generateContent REST API with a JSON response
// schema so the reply parses directly into a Prediction.
type Gemini struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGemini creates a Gemini-backed oracle client.
func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// responseSchema constrains the model to the Prediction shape.
var responseSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"riskScore": {"type": "NUMBER", "description": "0 to 100 probability of meltdown"},
		"riskLevel": {"type": "STRING", "enum": ["Low", "Moderate", "High", "Critical"]},
		"explanation": {"type": "STRING", "description": "Brief analysis of why the risk is at this level."},
		"recommendations": {"type": "ARRAY", "items": {"type": "STRING"}, "description": "3 specific, short actionable tips."}
	},
	"required": ["riskScore", "riskLevel", "explanation", "recommendations"]
}`)

// Predict sends the recent-entry window to Gemini and parses the
// structured assessment out of the first candidate.
func (g *Gemini) Predict(ctx context.Context, entries []models.LogEntry) (*models.Prediction, error) {
	prompt := fmt.Sprintf(`You are an expert behavioral analyst system for children with autism.
Analyze the following chronological activity logs recorded by parents and educators.

Logs:
%s

Based on patterns, sensory load, transitions, and mood, predict the current risk of a meltdown.
Provide a risk score (0-100), a short explanation, and 3 specific actionable recommendations for the caregiver currently viewing the app.`,
		FormatEntries(entries))

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("prediction request returned status %d: %s", resp.StatusCode, msg)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("response contained no candidates")
	}

	var prediction models.Prediction
	if err := json.Unmarshal([]byte(parsed.Candidates[0].Content.Parts[0].Text), &prediction); err != nil {
		return nil, fmt.Errorf("failed to parse prediction: %w", err)
	}
	if !prediction.RiskLevel.Valid() {
		return nil, fmt.Errorf("malformed prediction: unknown risk level %q", prediction.RiskLevel)
	}
	if prediction.RiskScore < 0 || prediction.RiskScore > 100 {
		return nil, fmt.Errorf("malformed prediction: risk score %d out of range", prediction.RiskScore)
	}

	return &prediction, nil
}
