package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ErrUnsupportedBackend is returned by New for an unknown backend name.
var ErrUnsupportedBackend = errors.New("unsupported language model backend")

const (
	BackendStdin  = "stdin"
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Backends lists the backend names New accepts.
func Backends() []string {
	return []string{BackendStdin, BackendOpenAI, BackendGemini}
}

// Provider completes a prompt under an instruction. It satisfies
// agent.LanguageModel.
type Provider interface {
	CompletePrompt(ctx context.Context, instruction string, prompt string) (string, error)
}

type ProviderParams struct {
	BaseURL string
	APIKey  string
	Model   string
	Logger  *zap.Logger
	In      io.Reader
	Out     io.Writer
}

type ProviderOption func(*ProviderParams)

func WithBaseURL(baseURL string) ProviderOption {
	return func(p *ProviderParams) {
		p.BaseURL = baseURL
	}
}

func WithAPIKey(apiKey string) ProviderOption {
	return func(p *ProviderParams) {
		p.APIKey = apiKey
	}
}

func WithModel(model string) ProviderOption {
	return func(p *ProviderParams) {
		p.Model = model
	}
}

func WithLogger(logger *zap.Logger) ProviderOption {
	return func(p *ProviderParams) {
		p.Logger = logger
	}
}

// WithIO sets the streams used by the stdin backend.
func WithIO(in io.Reader, out io.Writer) ProviderOption {
	return func(p *ProviderParams) {
		p.In = in
		p.Out = out
	}
}

func buildParams(opts []ProviderOption) *ProviderParams {
	params := &ProviderParams{
		Logger: zap.NewNop(),
		In:     os.Stdin,
		Out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(params)
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return params
}

// New builds the provider registered under backend.
func New(ctx context.Context, backend string, opts ...ProviderOption) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendStdin:
		return Stdin(opts...), nil
	case BackendOpenAI:
		return OpenAi(ctx, opts...), nil
	case BackendGemini:
		client, err := Gemini(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedBackend, backend, strings.Join(Backends(), ", "))
	}
}
