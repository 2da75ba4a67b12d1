// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// DefaultURL is the OpenRouter chat completions endpoint.
const DefaultURL = "https://openrouter.ai/api/v1/chat/completions"

// NoResult is the sentinel the model replies with when two elements
// should not combine. GenerateResultName returns it verbatim.
const NoResult = "NO RESULT"

const (
	maxElementNameLength = 30
	maxGenerationRetries = 3
	suggestionCount      = 50
)

var (
	ErrMissingAPIKey = errors.New("OPENROUTER_API_KEY is not set")
	ErrInvalidSVG    = errors.New("failed to generate valid SVG")
)

// Client is a minimal OpenRouter API client (no SDK, pure stdlib).
// It selects between a text model (result names, suggestions) and an
// icon model (SVG markup). One outbound call per operation, no
// streaming, no caching.
type Client struct {
	apiKey    string
	url       string
	textModel string
	iconModel string
	http      *http.Client
}

func NewClient(apiKey, url, textModel, iconModel string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		apiKey:    apiKey,
		url:       url,
		textModel: textModel,
		iconModel: iconModel,
		http:      &http.Client{Timeout: 120 * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// chat sends a single user-role prompt and returns the raw completion.
func (c *Client) chat(model, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := chatRequest{
		Model:    model,
		Messages: []message{{Role: "user", Content: prompt}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequest("POST", c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("request error: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter API error: %s", resp.Status)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openrouter API error (%s): %s", chatResp.Error.Type, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// GenerateResultName asks the text model what combining two elements
// yields. The prompt is seeded with all existing recipes and element
// names to bias the model toward reuse. Returns NoResult when the
// elements should not combine, and retries up to 3 times when the
// returned name exceeds the length cap; after exhausting retries it
// falls back to NoResult rather than failing the caller.
func (c *Client) GenerateResultName(ingredient1, ingredient2, recipeExamples, elementNames string) (string, error) {
	if recipeExamples == "" {
		recipeExamples = "None yet"
	}
	if elementNames == "" {
		elementNames = "None yet"
	}

	prompt := fmt.Sprintf(`You are a recipe generator for a game where elements can be combined.

Existing recipes (examples):
%s

Existing element names:
%s

Given two elements to combine: %q and %q

Determine what the result should be. You can:
1. Reuse an existing element name if it makes sense - especially if that element currently has very few recipes leading to it
2. Create a new element name if needed - optimize for results that are interesting to build upon further. The result may be whimsical rather than literal, and may even be one of the two ingredients.
3. Respond with "NO RESULT" if these elements should not be combinable

IMPORTANT: Reply with ONLY the result element name (or "NO RESULT"), nothing else. No explanations, no markdown, just the name. Keep the name short (under %d characters).`,
		recipeExamples, elementNames, ingredient1, ingredient2, maxElementNameLength)

	for attempt := 0; attempt < maxGenerationRetries; attempt++ {
		result, err := c.chat(c.textModel, prompt)
		if err != nil {
			return "", err
		}

		trimmed := strings.TrimSpace(result)

		// Accept "NO RESULT" regardless of length
		if strings.EqualFold(trimmed, NoResult) {
			return NoResult, nil
		}

		if len(trimmed) <= maxElementNameLength {
			return trimmed, nil
		}

		slog.Info("generated name too long, retrying",
			"length", len(trimmed),
			"name", trimmed,
		)
	}

	slog.Warn("failed to generate short name", "attempts", maxGenerationRetries)
	return NoResult, nil
}

// GenerateIcon asks the icon model for an SVG illustration of the
// element. The response is validated by extractSVG; a response with no
// well-formed <svg> tag is an error, not retried.
func (c *Client) GenerateIcon(elementName string) (string, error) {
	prompt := fmt.Sprintf(`Generate an SVG illustration of %q in a slightly cartoony style on a transparent background. The SVG should fit nicely inside a square frame. Do not set explicit width or height attributes on the SVG element - use only viewBox for sizing. Return only the SVG code, without any markdown formatting or explanations.`, elementName)

	content, err := c.chat(c.iconModel, prompt)
	if err != nil {
		return "", err
	}
	return extractSVG(content)
}

// RegenerateIcon produces a new icon for an element, seeded with the
// previous markup and free-text feedback. Same extraction contract as
// GenerateIcon.
func (c *Client) RegenerateIcon(elementName, oldSVG, feedback string) (string, error) {
	prompt := fmt.Sprintf(`You are updating an SVG illustration of %q. Here is the current SVG:

%s

User feedback: %s

Please generate an improved version of this SVG based on the feedback. Keep it in a slightly cartoony style on a transparent background, and ensure it fits nicely inside a square frame. Do not set explicit width or height attributes on the SVG element - use only viewBox for sizing. Return only the SVG code, without any markdown formatting or explanations.`,
		elementName, oldSVG, feedback)

	content, err := c.chat(c.iconModel, prompt)
	if err != nil {
		return "", err
	}
	return extractSVG(content)
}

// Suggestion is one AI-proposed recipe, by element name.
type Suggestion struct {
	Ingredient1 string
	Ingredient2 string
	Result      string
}

// SuggestRecipes asks the text model for a batch of new recipes given
// the existing ones. Lines that don't match the "A + B = C" shape are
// discarded rather than failing the call.
func (c *Client) SuggestRecipes(recipeExamples string) ([]Suggestion, error) {
	if recipeExamples == "" {
		recipeExamples = "None yet"
	}

	prompt := fmt.Sprintf(`You are a recipe generator for a game where elements can be combined.

Here are the existing recipes:
%s

Suggest %d new recipes that are not duplicates of the ones above. Prefer combining existing element names, but new result names are allowed. Results may be whimsical rather than literal.

IMPORTANT: Reply with ONLY the recipes, one per line, in the exact format "A + B = C". No explanations, no markdown, no numbering.`,
		recipeExamples, suggestionCount)

	content, err := c.chat(c.textModel, prompt)
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	for _, line := range strings.Split(content, "\n") {
		lhs, result, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		ing1, ing2, ok := strings.Cut(lhs, "+")
		if !ok {
			continue
		}

		s := Suggestion{
			Ingredient1: strings.TrimSpace(ing1),
			Ingredient2: strings.TrimSpace(ing2),
			Result:      strings.TrimSpace(result),
		}
		if s.Ingredient1 == "" || s.Ingredient2 == "" || s.Result == "" {
			continue
		}
		suggestions = append(suggestions, s)
	}

	return suggestions, nil
}

var (
	fenceRE  = regexp.MustCompile("(?s)```(?:svg)?\\s*(.*?)```")
	svgTagRE = regexp.MustCompile(`(?is)<svg.*</svg>`)
)

// extractSVG pulls the first well-formed SVG fragment out of a model
// response, stripping markdown fences and surrounding prose.
func extractSVG(content string) (string, error) {
	svg := strings.TrimSpace(content)

	// Remove markdown code blocks if present
	if m := fenceRE.FindStringSubmatch(svg); m != nil {
		svg = strings.TrimSpace(m[1])
	}

	// If the content doesn't start with <svg, try to find it
	if !strings.HasPrefix(svg, "<svg") {
		if m := svgTagRE.FindString(svg); m != "" {
			svg = m
		}
	}

	if !strings.HasPrefix(svg, "<svg") {
		return "", ErrInvalidSVG
	}

	return svg, nil
}
