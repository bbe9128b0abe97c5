package extractor

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/sukraa/prescription-ai-backend/pkg/config"
	"github.com/sukraa/prescription-ai-backend/pkg/errors"
	"github.com/sukraa/prescription-ai-backend/pkg/logger"
)

// OpenAIExtractor extracts prescription data via an OpenAI-compatible
// multimodal chat-completion API.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
	prompt string
	log    *logger.Logger
}

// NewOpenAIExtractor creates an extractor from the OpenAI configuration.
// When prompt_path is set, the instruction prompt is read from that file
// instead of the built-in template.
func NewOpenAIExtractor(cfg *config.OpenAIConfig, log *logger.Logger) (*OpenAIExtractor, error) {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	prompt := defaultPrompt
	if cfg.PromptPath != "" {
		data, err := os.ReadFile(cfg.PromptPath)
		if err != nil {
			return nil, fmt.Errorf("read prompt template %s: %w", cfg.PromptPath, err)
		}
		prompt = string(data)
	}

	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		prompt: prompt,
		log:    log.WithComponent("openai-extractor"),
	}, nil
}

// Extract sends the fixed instruction prompt plus the image to the model and
// returns the raw text reply. Transport, auth, and quota failures all come
// back as ExtractionFailed; there is no retry.
func (e *OpenAIExtractor) Extract(ctx context.Context, imageDataURL string) (string, error) {
	e.log.Debug().
		Str("model", e.model).
		Int("payload_bytes", len(imageDataURL)).
		Msg("sending extraction request")

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: e.prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageDataURL,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", errors.ExtractionFailed(err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.ExtractionFailed(stderrors.New("no choices in completion response"))
	}

	content := resp.Choices[0].Message.Content
	e.log.Debug().
		Int("reply_length", len(content)).
		Msg("received extraction reply")

	return content, nil
}
