package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash-exp"

type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func Gemini(ctx context.Context, opts ...ProviderOption) (*GeminiClient, error) {
	params := buildParams(opts)
	apiKey := params.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Error retrieving GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGoogleAI,
	})
	if err != nil {
		return nil, err
	}
	model := params.Model
	if model == "" {
		model = defaultGeminiModel
	}
	params.Logger.Info("using gemini backend", zap.String("model", model))
	return &GeminiClient{
		client: client,
		model:  model,
		logger: params.Logger,
	}, nil
}

func (c *GeminiClient) CompletePrompt(ctx context.Context, instruction string, prompt string) (string, error) {
	parts := []*genai.Part{
		{Text: prompt},
	}
	var config *genai.GenerateContentConfig
	if instruction != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		}
	}
	result, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{{Role: "user", Parts: parts}}, config)
	if err != nil {
		return "", err
	}
	return responseText(result)
}

func responseText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
