package classifier

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI asks an OpenAI-compatible vision model for per-class scores.
type OpenAI struct {
	client openaiclient.Client
	model  string
	ready  bool
}

func NewOpenAI(apiKey, endpoint, model string, httpClient *http.Client) *OpenAI {
	apiKey = strings.TrimSpace(apiKey)
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultOpenAIModel
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	if httpClient != nil {
		opts = append(opts, openaioption.WithHTTPClient(httpClient))
	}

	return &OpenAI{
		client: openaiclient.NewClient(opts...),
		model:  model,
		ready:  apiKey != "",
	}
}

func (o *OpenAI) Name() string { return "openai/" + o.model }

func (o *OpenAI) Loaded() bool { return o.ready }

func (o *OpenAI) Classify(ctx context.Context, image []byte) (analysis.Prediction, error) {
	if len(image) == 0 {
		return nil, errEmptyImage
	}

	dataURL := "data:" + detectMediaType(image) + ";base64," + encodeImage(image)
	resp, err := o.client.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Model: openaiclient.ChatModel(o.model),
		Messages: []openaiclient.ChatCompletionMessageParamUnion{
			openaiclient.SystemMessage(visionSystemPrompt),
			openaiclient.UserMessage([]openaiclient.ChatCompletionContentPartUnionParam{
				openaiclient.TextContentPart(visionPrompt),
				openaiclient.ImageContentPart(openaiclient.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
		MaxTokens: openaiclient.Int(visionMaxTokens),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, errors.New("empty response from AI")
	}
	return parseScores(resp.Choices[0].Message.Content)
}
