package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const maxTextSuggestions = 5

const suggestPromptTemplate = `Analyze this product image and suggest 5 short Hebrew marketing texts that would work well as overlays on this image.

%s

Requirements:
- Very short (2-5 words in Hebrew)
- Catchy and promotional
- Suitable for social media ads and product images
- Native Hebrew, proper grammar
- Consider the image content, colors, and composition
- Texts should stand out on the image

Return ONLY the Hebrew texts, one per line, without numbers or bullets.`

// fallbackTexts are served when no API key is configured or the provider
// call fails; the suggest-texts endpoint degrades instead of erroring.
func fallbackTexts() []string {
	return []string{
		"מבצע מיוחד!",
		"הזדמנות אחרונה",
		"קנה עכשיו",
		"חדש!",
		"מחיר מיוחד",
	}
}

// SuggestTexts asks the vision model for short Hebrew overlay texts for the
// given image. img may be nil when only a product description is available.
func (c *Client) SuggestTexts(ctx context.Context, img []byte, productDescription string) ([]string, error) {
	if c.apiKey == "" {
		return fallbackTexts(), nil
	}

	var note string
	if productDescription != "" {
		note = fmt.Sprintf("Product context: %s", productDescription)
	}
	parts := []requestPart{{Text: fmt.Sprintf(suggestPromptTemplate, note)}}
	if len(img) > 0 {
		parts = append(parts, requestPart{InlineData: &inlineData{
			MimeType: "image/png",
			Data:     base64.StdEncoding.EncodeToString(img),
		}})
	}

	resp, err := c.generateContent(ctx, c.textModel, generateRequest{
		Contents: []requestContent{{Role: "user", Parts: parts}},
	})
	if err != nil {
		logrus.WithError(err).Warn("text suggestion request failed, using fallback templates")
		return fallbackTexts(), nil
	}

	texts := parseSuggestions(responseText(resp))
	if len(texts) == 0 {
		return fallbackTexts(), nil
	}
	return texts, nil
}

func responseText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

// parseSuggestions turns model output into clean suggestion lines, stripping
// any numbering or bullets the model added despite instructions.
func parseSuggestions(raw string) []string {
	var texts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.-*•● ")
		if line == "" {
			continue
		}
		texts = append(texts, line)
		if len(texts) == maxTextSuggestions {
			break
		}
	}
	return texts
}
