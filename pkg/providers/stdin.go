package providers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// StdinClient lets a person play the model: it prints the instruction and
// prompt and reads one line back as the completion.
type StdinClient struct {
	in     *bufio.Reader
	out    io.Writer
	logger *zap.Logger
}

func Stdin(opts ...ProviderOption) *StdinClient {
	params := buildParams(opts)
	return &StdinClient{
		in:     bufio.NewReader(params.In),
		out:    params.Out,
		logger: params.Logger,
	}
}

func (c *StdinClient) CompletePrompt(ctx context.Context, instruction string, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if instruction != "" {
		if _, err := fmt.Fprintf(c.out, "%s\n\n", instruction); err != nil {
			return "", err
		}
	}
	if _, err := fmt.Fprintf(c.out, "%s\n> ", prompt); err != nil {
		return "", err
	}

	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading completion: %w", err)
	}
	c.logger.Debug("stdin completion", zap.String("response", line))
	return strings.TrimRight(line, "\r\n"), nil
}
