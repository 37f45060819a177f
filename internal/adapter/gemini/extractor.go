package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/kwybro/cookbooks/internal/pipeline"
)

const extractionPrompt = `Analyze this cookbook index page and extract all recipe entries.

For each recipe, provide:
- name: The recipe name exactly as written
- page_start: The starting page number
- page_end: The ending page number (if it spans pages, otherwise null)
- category: The section/category if visible (e.g., "Salads", "Mains")

Handle multi-column layouts. Include sub-recipes if listed.`

// Extractor reads structured recipe entries off an index-page photo
// using a vision-capable Gemini model with a JSON response schema.
type Extractor struct {
	client *genai.Client
	model  string
}

func NewExtractor(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*Extractor, error) {
	opts = append(opts, option.WithAPIKey(apiKey))
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Extractor{client: client, model: model}, nil
}

func (e *Extractor) Extract(ctx context.Context, image []byte, contentType string) ([]pipeline.ExtractedEntry, error) {
	slog.InfoContext(ctx, "extracting recipes from index image", "model", e.model, "bytes", len(image))

	model := e.client.GenerativeModel(e.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":       {Type: genai.TypeString},
				"page_start": {Type: genai.TypeInteger},
				"page_end":   {Type: genai.TypeInteger, Nullable: true},
				"category":   {Type: genai.TypeString, Nullable: true},
			},
			Required: []string{"name", "page_start"},
		},
	}

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: contentType, Data: image},
		genai.Text(extractionPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrExtractionFailed, err)
	}

	text, ok := firstText(resp)
	if !ok {
		return nil, fmt.Errorf("%w: no text candidate in model response", pipeline.ErrExtractionFailed)
	}

	var entries []pipeline.ExtractedEntry
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, fmt.Errorf("%w: malformed entry list: %v", pipeline.ErrExtractionFailed, err)
	}

	// An empty list is a valid answer: an index page with no entries.
	return entries, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok && text != "" {
				return string(text), true
			}
		}
	}
	return "", false
}
