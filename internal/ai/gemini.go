package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/logging"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-pro-latest"

const systemPrompt = "You are a document analyzer. Extract the most important points from the provided document. Focus on key information, main ideas, and significant details."

const pdfPrompt = "Please read this PDF and extract the key points. Include relevant context where helpful."

const webpagePrompt = "Please analyze this webpage content and extract the key points. Include relevant context where helpful."

// Prompt the model to return strict JSON with a known schema.
const schemaPrompt = `Return ONLY valid JSON - no markdown code blocks, no explanations.
Output a single tree of key points with this recursive shape:
{"id": "root", "label": "Document title", "children": [
  {"id": "1", "label": "Main idea", "children": [
    {"id": "1.1", "label": "Supporting detail"}
  ]}
]}

RULES:
- The root node is the document itself; its label is the document title.
- id: unique across the whole tree (use dotted numbering like 1, 1.1, 1.2.1)
- label: a short statement of the point (max 20 words)
- children: ordered sub-points; omit or leave empty for leaves
- Keep nesting to at most 4 levels below the root`

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error)

type Gemini struct {
	generate generateFunc
	model    string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "missing GOOGLE_API_KEY")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGemini(func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		res, err := c.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			return "", err
		}
		return res.Text(), nil
	}, model), nil
}

func newGemini(gen generateFunc, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{generate: gen, model: model}
}

// Model returns the model name requests are sent to.
func (g *Gemini) Model() string { return g.model }

// ExtractOutline asks Gemini for the key points of doc as an outline tree.
// PDFs are sent inline so the model can read layout and scanned pages; other
// documents are sent as text.
func (g *Gemini) ExtractOutline(ctx context.Context, doc Document) (outline.Node, error) {
	contents, err := buildContents(doc)
	if err != nil {
		return outline.Node{}, err
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	logger := logging.FromContext(ctx)
	logger.Debug("requesting outline from gemini", "model", g.model, "doc", doc.Name, "kind", doc.Kind)

	js, err := g.generate(ctx, g.model, contents, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return outline.Node{}, errs.Wrap(errs.ErrCodeTimeout, err, "gemini request timed out")
		}
		return outline.Node{}, errs.Wrap(errs.ErrCodeExtraction, err, "gemini API call failed")
	}
	logger.Debug("gemini responded", "bytes", len(js))

	root, err := parseOutline(js)
	if err != nil {
		return outline.Node{}, err
	}
	if root.Label == "" {
		root.Label = rootLabel(doc)
	}
	root = outline.AssignIDs(root)
	if err := outline.Validate(root); err != nil {
		return outline.Node{}, errs.Wrap(errs.ErrCodeExtraction, err, "gemini returned a malformed outline")
	}
	return root, nil
}

func buildContents(doc Document) ([]*genai.Content, error) {
	instruction := pdfPrompt
	if doc.Kind == KindWebpage {
		instruction = webpagePrompt
	}
	parts := []*genai.Part{
		genai.NewPartFromText(instruction),
		genai.NewPartFromText(schemaPrompt),
	}
	switch {
	case len(doc.Data) > 0 && doc.Kind == KindPDF:
		mt := doc.MIMEType
		if mt == "" {
			mt = "application/pdf"
		}
		parts = append(parts, genai.NewPartFromBytes(doc.Data, mt))
	case strings.TrimSpace(doc.Text) != "":
		parts = append(parts, genai.NewPartFromText(doc.Text))
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "no content provided")
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}

// parseOutline decodes the model's answer, tolerating code fences and prose
// around the JSON object.
func parseOutline(js string) (outline.Node, error) {
	var out outline.Node
	js = stripCodeFences(js)
	if err := json.Unmarshal([]byte(js), &out); err != nil {
		s := findFirstJSON(js)
		if s == "" {
			return out, errs.Wrap(errs.ErrCodeExtraction, err, "failed to parse Gemini response - no JSON found")
		}
		if err2 := json.Unmarshal([]byte(s), &out); err2 != nil {
			return out, errs.Wrap(errs.ErrCodeExtraction, err2, "failed to parse Gemini response as JSON (original error: %v)", err)
		}
	}
	return out, nil
}

func stripCodeFences(s string) string {
	// Remove markdown/json code fences like ```json, ```markdown, ```
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if firstNewline := strings.Index(s, "\n"); firstNewline != -1 {
			s = s[firstNewline+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// findFirstJSON returns the first balanced {...} object in s, skipping braces
// inside string literals.
func findFirstJSON(s string) string {
	start := -1
	depth := 0
	inString, escaped := false, false
	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if start != -1 {
				inString = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
