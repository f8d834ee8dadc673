// HTTP client for the Gemini generateContent API: text2img, img2img and
// Hebrew overlay-text suggestions.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/user/hebrew-imagegen/internal/entity"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultImageModel = "gemini-2.5-flash-image"
	defaultTextModel  = "gemini-2.0-flash"
	defaultTimeout    = 60 * time.Second
)

type Config struct {
	APIKey     string
	BaseURL    string
	ImageModel string
	TextModel  string
	Timeout    time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	imageModel string
	textModel  string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		imageModel: cfg.ImageModel,
		textModel:  cfg.TextModel,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Wire types for generateContent. Requests use snake_case part fields,
// responses come back camelCase.
type generateRequest struct {
	Contents         []requestContent  `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type requestContent struct {
	Role  string        `json:"role,omitempty"`
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ImageConfig *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

type candidate struct {
	Content      *responseContent `json:"content"`
	FinishReason string           `json:"finishReason"`
}

type responseContent struct {
	Parts []responsePart `json:"parts"`
}

type responsePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Generate produces an image from a text prompt alone (text2img).
func (c *Client) Generate(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	logrus.WithFields(logrus.Fields{"aspect_ratio": aspectRatio}).Info("generating image from prompt")

	resp, err := c.generateContent(ctx, c.imageModel, generateRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{AspectRatio: aspectRatio},
		},
	})
	if err != nil {
		return nil, err
	}
	return extractImage(resp)
}

// Edit modifies an existing image according to an instruction (img2img).
func (c *Client) Edit(ctx context.Context, img []byte, instruction, aspectRatio string) ([]byte, error) {
	if len(img) == 0 {
		return nil, entity.ErrEmptyImage
	}
	logrus.WithFields(logrus.Fields{"aspect_ratio": aspectRatio, "bytes": len(img)}).Info("editing uploaded image")

	resp, err := c.generateContent(ctx, c.imageModel, generateRequest{
		Contents: []requestContent{{Parts: []requestPart{
			{Text: instruction},
			{InlineData: &inlineData{
				MimeType: "image/png",
				Data:     base64.StdEncoding.EncodeToString(img),
			}},
		}}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{AspectRatio: aspectRatio},
		},
	})
	if err != nil {
		return nil, err
	}
	return extractImage(resp)
}

func (c *Client) generateContent(ctx context.Context, model string, reqBody generateRequest) (*generateResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", entity.ErrProvider)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProvider, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProvider, err)
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", entity.ErrProvider, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s (%s)", entity.ErrProvider, resp.Error.Message, resp.Error.Status)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", entity.ErrProvider, httpResp.StatusCode)
	}
	return &resp, nil
}

func extractImage(resp *generateResponse) ([]byte, error) {
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates in response", entity.ErrProvider)
	}

	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no content, finish reason %q", entity.ErrProvider, cand.FinishReason)
	}

	for _, part := range cand.Content.Parts {
		if part.InlineData == nil {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: bad image payload: %v", entity.ErrProvider, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: no image found in response parts", entity.ErrProvider)
}
