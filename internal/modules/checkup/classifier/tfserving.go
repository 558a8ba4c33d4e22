package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mx-space/dentalcare/internal/modules/checkup/analysis"
)

// TFServing calls a TensorFlow Serving REST predict endpoint.
type TFServing struct {
	endpoint  string
	model     string
	inputSize int
	client    *http.Client
}

func NewTFServing(endpoint, model string, inputSize int, client *http.Client) *TFServing {
	if client == nil {
		client = &http.Client{}
	}
	return &TFServing{
		endpoint:  strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		model:     model,
		inputSize: inputSize,
		client:    client,
	}
}

func (t *TFServing) Name() string { return "tfserving/" + t.model }

func (t *TFServing) Loaded() bool { return t.endpoint != "" && t.model != "" }

func (t *TFServing) predictURL() string {
	return fmt.Sprintf("%s/v1/models/%s:predict", t.endpoint, t.model)
}

func (t *TFServing) Classify(ctx context.Context, image []byte) (analysis.Prediction, error) {
	tensor, err := Preprocess(image, t.inputSize)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]interface{}{
		"instances": []Tensor{tensor},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.predictURL(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("tfserving error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Predictions [][]float64 `json:"predictions"`
		Error       string      `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode tfserving response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("tfserving error: %s", result.Error)
	}
	if len(result.Predictions) == 0 {
		return nil, fmt.Errorf("tfserving returned no predictions")
	}

	vec := analysis.Prediction(result.Predictions[0])
	if err := checkLength(vec); err != nil {
		return nil, err
	}
	return vec, nil
}
