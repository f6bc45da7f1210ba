package openai

import (
	"github.com/ChristianNyamekye/folioassist/internal/llm/driver"
)

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type chatResponseMessage struct {
	Content string `json:"content"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// toDriverResponse maps the wire response to the driver shape. A response
// with no choices yields an empty Content rather than an error; the service
// layer decides how to treat empty replies.
func toDriverResponse(resp *chatCompletionResponse) *driver.Response {
	response := &driver.Response{}
	if resp == nil {
		return response
	}

	if len(resp.Choices) > 0 {
		response.Content = resp.Choices[0].Message.Content
		response.FinishReason = resp.Choices[0].FinishReason
	}

	if resp.Usage != nil {
		response.Usage = &driver.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return response
}
