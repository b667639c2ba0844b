package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/replicate/replicate-go"
	"go.uber.org/zap"

	"github.com/modforge/uprez/config"
	"github.com/modforge/uprez/internal/logger"
)

// Upscaler runs a hosted upscaling model on Replicate.
type Upscaler struct {
	client *replicate.Client
	model  string
}

// NewUpscaler creates an Upscaler from configuration.
func NewUpscaler(cfg config.ReplicateConfig) (*Upscaler, error) {
	if cfg.Token == "" {
		return nil, errors.New("Replicate API token is not configured (set REPLICATE_API_TOKEN)")
	}
	client, err := replicate.NewClient(replicate.WithToken(cfg.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to create Replicate client: %w", err)
	}
	return &Upscaler{client: client, model: cfg.Model}, nil
}

// Upscale sends file through the model and returns the output URL. An empty
// model falls back to the configured one.
func (u *Upscaler) Upscale(ctx context.Context, file, model string) (string, error) {
	if model == "" {
		model = u.model
	}

	uri, err := dataURI(file)
	if err != nil {
		return "", err
	}

	logger.L(ctx).Debug("calling Replicate", zap.String("model", model), zap.String("file", file))
	output, err := u.client.Run(ctx, model, replicate.PredictionInput{"image": uri}, nil)
	if err != nil {
		return "", fmt.Errorf("upscale request failed: %w", err)
	}

	url, err := outputURL(output)
	if err != nil {
		return "", err
	}
	return url, nil
}

// outputURL extracts the result URL from the model output, which is either a
// bare string, a list of URLs, or an object with a url field depending on
// the model.
func outputURL(output replicate.PredictionOutput) (string, error) {
	var url string
	switch v := output.(type) {
	case string:
		url = v
	case []any:
		if len(v) > 0 {
			url, _ = v[0].(string)
		}
	case map[string]any:
		url, _ = v["url"].(string)
	}
	if !strings.HasPrefix(url, "http:") && !strings.HasPrefix(url, "https:") {
		return "", fmt.Errorf("model returned no usable output URL (%T)", output)
	}
	return url, nil
}

// dataURI encodes an image file as a base64 data URI for prediction input.
func dataURI(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(file))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}
