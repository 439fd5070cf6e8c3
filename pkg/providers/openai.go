package providers

import (
	"context"
	"errors"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

const defaultOpenAIModel = "gpt-4o-mini"

type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func newOpenAIClient(params ProviderParams) *OpenAIClient {
	var client *openai.Client
	if params.BaseURL == "" {
		params.BaseURL = "https://api.openai.com/v1/"
	}
	if params.APIKey != "" {
		client = openai.NewClient(
			option.WithAPIKey(params.APIKey),
			option.WithBaseURL(params.BaseURL),
		)
	} else {
		client = openai.NewClient(
			option.WithBaseURL(params.BaseURL),
		)
	}
	if params.Model == "" {
		params.Model = defaultOpenAIModel
	}
	params.Logger.Info("using openai backend",
		zap.String("baseURL", params.BaseURL),
		zap.String("model", params.Model),
	)
	return &OpenAIClient{
		client: client,
		model:  params.Model,
		logger: params.Logger,
	}
}

func OpenAi(ctx context.Context, opts ...ProviderOption) *OpenAIClient {
	params := buildParams(opts)

	// Set defaults and environment fallbacks
	if params.BaseURL == "" {
		params.BaseURL = os.Getenv("OPENAI_API_BASE_URL")
		if params.BaseURL == "" {
			params.BaseURL = "https://api.openai.com/v1/" // Default OpenAI API endpoint
		}
	}
	if params.APIKey == "" {
		params.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return newOpenAIClient(*params)
}

func (c *OpenAIClient) CompletePrompt(ctx context.Context, instruction string, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if instruction != "" {
		messages = append(messages, openai.SystemMessage(instruction))
	}
	messages = append(messages, openai.UserMessage(prompt))

	chatCompletion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F(messages),
		Model:    openai.F(openai.ChatModel(c.model)),
	})
	if err != nil {
		return "", err
	}
	if len(chatCompletion.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return chatCompletion.Choices[0].Message.Content, nil
}
