// Package provider implements summary.Completer on top of the OpenAI
// responses API. It classifies failures for the logs but never retries: the
// pipeline's policy for every external-call failure is fallback, not retry.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/lesgalactiques/galactia/summary"
)

// maxOutputTokens bounds a single response; summaries are instructed to stay
// under 1200 characters anyway.
const maxOutputTokens = 2500

// Client is a Completer backed by one OpenAI model. Safe for concurrent use
// by independent pipeline invocations.
type Client struct {
	api   *openai.Client
	model string
}

// New builds a Client for the given API key and model.
func New(apiKey, model string) *Client {
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{api: &c, model: model}
}

// Complete issues one responses-API call. When req.Schema is set the model
// is constrained to a single strict JSON object.
func (c *Client) Complete(ctx context.Context, req summary.CompletionRequest) (string, error) {
	if c.api == nil {
		return "", errors.New("provider: client is nil")
	}
	if c.model == "" {
		return "", errors.New("provider: model is empty")
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Instructions:    openai.String(req.Instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Input, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if req.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		}
	}

	resp, err := c.api.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai %s: %w", ClassifyError(err), err)
	}
	return resp.OutputText(), nil
}

// ClassifyError buckets an OpenAI error for logging.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"), strings.Contains(msg, "too many requests"):
		return "rate_limited"
	case strings.Contains(msg, "500"), strings.Contains(msg, "internal server error"), strings.Contains(msg, "server_error"):
		return "server_error"
	default:
		return "request_failed"
	}
}
