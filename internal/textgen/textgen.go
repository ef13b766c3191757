package textgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/llm"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTimeout     = 30 * time.Second
	temperature        = 0.9
	maxTokens          = 160
	iAmProbability     = 0.69
	systemPrompt       = "You are an encouraging affirmation coach. Craft vivid, emotionally resonant affirmations that sound natural, grounded, and human."
	requirementsHeader = "Requirements:"
)

var (
	wrappingQuotes = regexp.MustCompile(`^["“”']+|["“”']+$`)
	leadingI       = regexp.MustCompile(`(?i)^i\b`)
	repeatedSpace  = regexp.MustCompile(`\s{2,}`)
)

// writes one affirmation for a category
type Generator struct {
	completer llm.Completer
	model     string
	timeout   time.Duration
	// returns a value in [0, 1); replaced in tests
	random func() float64
}

type Config struct {
	Model   string
	Timeout time.Duration
}

func New(completer llm.Completer, config Config) *Generator {
	if config.Model == "" {
		config.Model = defaultModel
	}

	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &Generator{
		completer: completer,
		model:     config.Model,
		timeout:   config.Timeout,
		random:    rand.Float64,
	}
}

// generates an affirmation for category; GenerationFailed on empty output
func (g *Generator) Generate(ctx context.Context, category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", apperrors.Invalid(apperrors.OpGenerationFailed, "category is required to generate an affirmation")
	}

	requireIAm := g.random() < iAmProbability

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.completer.Complete(ctx, llm.ChatRequest{
		Op:           apperrors.OpGenerationFailed,
		Model:        g.model,
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: buildPrompt(category, requireIAm)}},
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		return "", err
	}

	affirmation := PostProcess(raw, requireIAm)
	if affirmation == "" {
		return "", apperrors.NewGeneration(apperrors.KindProviderTransient, apperrors.OpGenerationFailed,
			"affirmation generation returned no content", nil)
	}

	return affirmation, nil
}

func buildPrompt(category string, requireIAm bool) string {
	opening := `• Use a natural first-person opening such as "I", "I am", "I choose", or "My".`
	if requireIAm {
		opening = `• Begin the sentence with the exact words "I am".`
	}

	lines := []string{
		fmt.Sprintf("Create one powerful affirmation for the category %q.", category),
		requirementsHeader,
		opening,
		"• Present tense and realistic yet aspirational.",
		"• 20-32 words.",
		"• Include a specific, vivid detail, sensation, or action tied to the category so that it feels distinct from common phrases.",
		`• Avoid repeating familiar phrasing such as "warm and inviting home" or generic affirmations you may have produced earlier. Use fresh adjectives and imagery.`,
		"• Return only the affirmation text with no quotation marks.",
	}

	return strings.Join(lines, "\n")
}

// strips wrapping quotes and, when required, forces an "I am" opening
func PostProcess(raw string, requireIAm bool) string {
	text := strings.TrimSpace(wrappingQuotes.ReplaceAllString(strings.TrimSpace(raw), ""))
	if text == "" {
		return ""
	}

	if !requireIAm || strings.HasPrefix(strings.ToLower(text), "i am") {
		return text
	}

	rest := leadingPronoun(text)
	rewritten := "I am " + rest

	return strings.TrimSpace(repeatedSpace.ReplaceAllString(rewritten, " "))
}

// drops a leading "I" or "You are"/"We are" style opener so the rewrite reads naturally
func leadingPronoun(text string) string {
	lower := strings.ToLower(text)

	for _, opener := range []string{"you are ", "we are ", "i'm ", "i’m "} {
		if strings.HasPrefix(lower, opener) {
			return strings.TrimLeft(text[len(opener):], " ")
		}
	}

	return strings.TrimLeft(leadingI.ReplaceAllString(text, ""), " ")
}
