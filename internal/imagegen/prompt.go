package imagegen

import (
	"context"
	"fmt"
	"strings"

	apperrors "codeberg.org/aiam/server/internal/errors"
	"codeberg.org/aiam/server/internal/llm"
)

const promptSystem = "You translate affirmations into evocative visual art prompts for text-to-image models. Focus on mood, lighting, and key elements that visually aptly convey the message of the affirmation."

// turns an affirmation into a scene description for the image model
func (g *Generator) synthesizePrompt(ctx context.Context, req Request) (string, error) {
	prompt, err := g.completer.Complete(ctx, llm.ChatRequest{
		Op:           apperrors.OpPromptSynthesisFailed,
		Model:        g.promptModel,
		SystemPrompt: promptSystem,
		Messages:     []llm.Message{{Role: "user", Content: buildPromptMessage(req)}},
		Temperature:  promptTemperature,
		MaxTokens:    promptMaxTokens,
	})
	if err != nil {
		return "", err
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", apperrors.NewGeneration(apperrors.KindProviderTransient, apperrors.OpPromptSynthesisFailed,
			"failed to craft an image prompt from the affirmation", nil)
	}

	return prompt, nil
}

func buildPromptMessage(req Request) string {
	lines := []string{
		"Affirmation:",
		req.Affirmation,
		"",
		"Create a concise image prompt (max 70 words) describing a single scene that captures the essence of the affirmation.",
		"Specify mood, lighting, environment, and any symbolic elements that visually aptly convey the message of the affirmation.. Use descriptive adjectives. Do not mention text or typography.",
		photoContext(req),
		demographicContext(req),
	}

	if req.Category != "" {
		lines[2] = "Category: " + req.Category
	}

	kept := lines[:0]
	for _, line := range lines {
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

func photoContext(req Request) string {
	if !req.Personal() {
		return ""
	}

	return fmt.Sprintf("\nUse the following user reference photos to capture their exact likeness: \nPortrait reference: %s\nFull-body reference: %s. "+
		"Describe the subject with identical facial features, skin tone, hair color, hairstyle, hair texture, body proportions, and posture. "+
		"Preserve all distinctive physical characteristics including hair length, style, and any unique features.",
		req.ReferencePhotos.Portrait, req.ReferencePhotos.FullBody)
}

// only used when the user's own photos are off
func demographicContext(req Request) string {
	if req.UseUserImages {
		return ""
	}

	d := req.Demographics
	var traits []string

	for _, trait := range []struct{ label, value string }{
		{"gender", d.Gender},
		{"age", d.AgeRange},
		{"ethnicity", d.Ethnicity},
		{"nationality", d.Nationality},
	} {
		value := strings.TrimSpace(trait.value)
		if value == "" || value == preferNotToSay {
			continue
		}

		traits = append(traits, trait.label+": "+value)
	}

	if len(traits) == 0 {
		return ""
	}

	return "\nIf you depict a person, align their appearance with these user preferences: " + strings.Join(traits, ", ") + "."
}
