// Package imagegen calls the OpenAI images API to render a poster from a
// text prompt.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	raerrors "github.com/stravarunart/runart-server/pkg/errors"
)

const (
	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	DefaultModel = "gpt-image-1"
	DefaultSize  = "1024x1024"
)

// Image is one generated image. Depending on the model, the provider
// returns either a hosted URL or inline base64 bytes; exactly one of the
// fields is set.
type Image struct {
	URL  string
	Data []byte
}

// Client submits prompts to the image generation endpoint.
type Client struct {
	apiKey     string
	model      string
	size       string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, model, size string) *Client {
	if model == "" {
		model = DefaultModel
	}
	if size == "" {
		size = DefaultSize
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		size:    size,
		baseURL: DefaultBaseURL,
		// Image models routinely take over a minute.
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// WithBaseURL overrides the API root, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

type generationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
	N      int    `json:"n"`
}

type generationResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate renders one image for the prompt. Any provider rejection is a
// GenerationError; no fallback image is substituted.
func (c *Client) Generate(ctx context.Context, promptText string) (*Image, error) {
	payload, err := json.Marshal(generationRequest{
		Model:  c.model,
		Prompt: promptText,
		Size:   c.size,
		N:      1,
	})
	if err != nil {
		return nil, raerrors.ErrGeneration.WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return nil, raerrors.ErrGeneration.WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, raerrors.ErrGeneration.WithMessage("image API request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, raerrors.ErrGeneration.WithCause(err)
	}

	var parsed generationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, raerrors.ErrGeneration.WithMessage("failed to decode image API response").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("image API returned %s", resp.Status)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return nil, raerrors.ErrGeneration.WithMessage(msg).WithMetadata("status", resp.Status)
	}

	if len(parsed.Data) == 0 {
		return nil, raerrors.ErrGeneration.WithMessage("image generation returned no data")
	}

	first := parsed.Data[0]
	if first.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(first.B64JSON)
		if err != nil {
			return nil, raerrors.ErrGeneration.WithMessage("failed to decode inline image data").WithCause(err)
		}
		return &Image{Data: data}, nil
	}
	if first.URL != "" {
		return &Image{URL: first.URL}, nil
	}

	return nil, raerrors.ErrGeneration.WithMessage("image generation returned neither url nor data")
}
