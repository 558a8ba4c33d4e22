package classifier

import (
	"context"
	"errors"
	"net/http"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// Anthropic asks a Claude vision model for per-class scores.
type Anthropic struct {
	client anthropicclient.Client
	model  string
	ready  bool
}

func NewAnthropic(apiKey, endpoint, model string, httpClient *http.Client) *Anthropic {
	apiKey = strings.TrimSpace(apiKey)
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultAnthropicModel
	}

	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
	}
	if httpClient != nil {
		opts = append(opts, anthropicoption.WithHTTPClient(httpClient))
	}

	return &Anthropic{
		client: anthropicclient.NewClient(opts...),
		model:  model,
		ready:  apiKey != "",
	}
}

func (a *Anthropic) Name() string { return "anthropic/" + a.model }

func (a *Anthropic) Loaded() bool { return a.ready }

func (a *Anthropic) Classify(ctx context.Context, image []byte) (analysis.Prediction, error) {
	if len(image) == 0 {
		return nil, errEmptyImage
	}

	resp, err := a.client.Messages.New(ctx, anthropicclient.MessageNewParams{
		Model:     anthropicclient.Model(a.model),
		MaxTokens: visionMaxTokens,
		System:    []anthropicclient.TextBlockParam{{Text: visionSystemPrompt}},
		Messages: []anthropicclient.MessageParam{
			anthropicclient.NewUserMessage(
				anthropicclient.NewImageBlockBase64(detectMediaType(image), encodeImage(image)),
				anthropicclient.NewTextBlock(visionPrompt),
			),
		},
	})
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, errors.New("empty response from AI")
	}
	return parseScores(text.String())
}
