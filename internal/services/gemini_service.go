package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"taskpilot/internal/config"
)

var ErrGeneratorNotConfigured = errors.New("generator api key not configured")

// GeminiService calls the Generative Language generateContent endpoint.
type GeminiService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     logrus.FieldLogger
}

func NewGeminiService(cfg config.GeneratorConfig, log logrus.FieldLogger) *GeminiService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	b := cfg.Breaker
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "generator",
		Interval: b.Interval,
		Timeout:  b.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= b.MinRequests && failureRatio >= b.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("[gemini] circuit breaker state changed")
		},
	})
	return &GeminiService{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		log:     log,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends prompt as a single user turn and returns the concatenated text parts.
func (g *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrGeneratorNotConfigured
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.generate(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (g *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.log.WithError(err).Error("[gemini][generate] http request failed")
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	g.log.WithFields(logrus.Fields{
		"model":       g.model,
		"http_status": resp.StatusCode,
		"took":        time.Since(start).Truncate(time.Millisecond).String(),
	}).Debug("[gemini][generate] response received")

	var api geminiResponse
	_ = json.Unmarshal(respBody, &api)
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if api.Error != nil && api.Error.Message != "" {
			msg = api.Error.Message
		}
		return "", fmt.Errorf("generateContent failed: status=%d: %s", resp.StatusCode, msg)
	}
	if len(api.Candidates) == 0 {
		return "", errors.New("generateContent returned no candidates")
	}

	var sb strings.Builder
	for _, part := range api.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
