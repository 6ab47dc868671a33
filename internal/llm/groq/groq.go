package groq

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"github.com/allychat/rag-agent/internal/llm"
)

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	output, err := c.client.Chat.Completions.New(ctx, c.params(request))
	if err != nil {
		return nil, fmt.Errorf("unable to invoke groq model: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := output.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		return nil, llm.ErrEmptyOutput
	}

	return &llm.LLMResponse{
		Content:    choice.Message.Content,
		StopReason: string(choice.FinishReason),
	}, nil
}

func (c *Client) InvokeModelStream(ctx context.Context, request llm.LLMRequest, callback llm.StreamCallback) (*llm.LLMResponse, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(request))

	acc := openai.ChatCompletionAccumulator{}

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta.Content
		if delta != "" && callback != nil {
			if err := callback(delta); err != nil {
				return nil, fmt.Errorf("callback error: %w", err)
			}
		}
	}

	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("stream error: %w", err)
	}

	if len(acc.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := acc.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		return nil, llm.ErrEmptyOutput
	}

	return &llm.LLMResponse{
		Content:    choice.Message.Content,
		StopReason: string(choice.FinishReason),
	}, nil
}

func (c *Client) params(request llm.LLMRequest) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(request.MaxTokens)),
		Temperature:         openai.Float(request.Temperature),
		Model:               openai.ChatModel(c.modelID),
	}
}
