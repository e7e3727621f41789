// internal/llm/client.go

// Package llm backs Ana's free-form chat with an OpenAI-compatible model.
// The scripted interview never touches it; only general chat falls through
// to the model when nothing else can answer.
package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"ana-voicebot/internal/common/config"
	apperrors "ana-voicebot/internal/common/errors"
	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/models"
)

// systemPrompt fixes Ana's persona for free-form replies.
const systemPrompt = "Eres Ana, una asistente virtual amigable y profesional de una empresa de préstamos en Guatemala. " +
	"Tu objetivo principal es ayudar con información de préstamos o guiar en el proceso de solicitud. " +
	"Respondes en español de manera cálida y concisa."

// Client produces a free-form reply given the utterance and recent history.
type Client interface {
	Reply(ctx context.Context, userText string, history []models.Interaction) (string, error)
}

// OpenAIClient talks to the chat completions API.
type OpenAIClient struct {
	api   *openai.Client
	model string
	log   logger.Logger
}

func NewOpenAIClient(cfg config.LLMConfig, log logger.Logger) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.Model,
		log:   log,
	}
}

// Reply replays the recent history as chat context and asks for a completion.
func (c *OpenAIClient) Reply(ctx context.Context, userText string, history []models.Interaction) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2*len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, h := range history {
		if h.UserMessage != "" {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: h.UserMessage,
			})
		}
		if h.AIMessage != "" {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: h.AIMessage,
			})
		}
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeLLMUnavailable, "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
