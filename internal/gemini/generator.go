package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/novalift/novaliftcom/internal/telemetry/metrics"
	"github.com/novalift/novaliftcom/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

// minContentWords is the lower bound on the generated body length; model
// output shorter than this is discarded in favor of the fallback draft.
const minContentWords = 600

// Draft is the transient, structured output of a generation call, before
// it gets persisted as a blog post.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Snippet string `json:"snippet"`
	Author  string `json:"author"`
}

type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type titleLister interface {
	TitlesBySector(ctx context.Context, sector string) ([]string, error)
}

// Generator turns a sector name into a complete blog draft. Model output
// that cannot be parsed and validated never surfaces as an error: the
// generator falls back to a deterministic template draft instead.
type Generator struct {
	textGen textGenerator
	titles  titleLister
	metrics *metrics.Manager
}

func NewGenerator(
	textGen textGenerator,
	titles titleLister,
	metricsManager *metrics.Manager,
) *Generator {
	return &Generator{
		textGen: textGen,
		titles:  titles,
		metrics: metricsManager,
	}
}

func (g *Generator) GenerateForSector(ctx context.Context, sector string) (_ *Draft, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogGenerator.generateForSector")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	existingTitles, err := g.titles.TitlesBySector(ctx, sector)
	if err != nil {
		return nil, fmt.Errorf("generate blog content for %s: %w", sector, err)
	}

	rawOutput, err := g.textGen.GenerateText(ctx, buildPrompt(sector, existingTitles))
	if err != nil {
		return nil, fmt.Errorf("generate blog content for %s: %w", sector, err)
	}

	draft, ok := parseDraft(rawOutput)
	if !ok {
		log.Warnf("generated output for sector [%s] not usable, using fallback draft", sector)
		if g.metrics != nil {
			g.metrics.CounterGenerateFallbacks.Inc()
		}
		return fallbackDraft(sector), nil
	}

	return draft, nil
}

// parseDraft turns raw model output into a validated draft. The bool
// result signals usability: false means the caller should use the
// fallback template, it is never an error.
func parseDraft(rawOutput string) (*Draft, bool) {
	cleaned := stripCodeFences(rawOutput)

	var draft Draft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		log.Debugf("parse generated draft: %s", err)
		return nil, false
	}

	if draft.Title == "" || draft.Content == "" || draft.Snippet == "" || draft.Author == "" {
		return nil, false
	}

	draft.Content = NormalizeContent(draft.Content)

	if wordCount(draft.Content) < minContentWords {
		return nil, false
	}

	return &draft, true
}

// stripCodeFences drops the markdown code block markers models like to
// wrap JSON output in.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func buildPrompt(sector string, existingTitles []string) string {
	var sb strings.Builder
	sb.WriteString("You are a professional content writer and industry expert. ")
	sb.WriteString(fmt.Sprintf(
		"Generate a high-quality, engaging blog post about the latest trends and innovations in %s.\n\n",
		sector,
	))

	sb.WriteString("IMPORTANT REQUIREMENTS:\n")
	sb.WriteString("1. Create a unique, attention-grabbing title that has NOT been used before.")
	if len(existingTitles) > 0 {
		sb.WriteString(fmt.Sprintf(" Avoid these existing titles: %s.", strings.Join(existingTitles, ", ")))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(
		"2. The blog MUST be at least %d words long and should be comprehensive and professionally written.\n",
		minContentWords,
	))
	sb.WriteString("3. Structure the content into at least 5 named sections, each well-developed with specific examples, data, or case studies.\n")
	sb.WriteString("4. Include a compelling introduction and conclusion.\n")
	sb.WriteString("5. Write a concise but engaging snippet (2-3 sentences) that captures the main value proposition.\n")
	sb.WriteString("6. Create a professional author name with relevant credentials.\n")
	sb.WriteString(fmt.Sprintf(
		"7. Make the content unique and specific to %s, with real examples, statistics and trends.\n\n",
		sector,
	))

	sb.WriteString("Format your response as a single clean JSON object with this structure:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"title\": \"Your Unique Blog Title\",\n")
	sb.WriteString("  \"content\": \"The full content, with double line breaks between paragraphs\",\n")
	sb.WriteString("  \"snippet\": \"A compelling 2-3 sentence summary of the blog's main value proposition\",\n")
	sb.WriteString("  \"author\": \"Author Name, Professional Title\"\n")
	sb.WriteString("}\n\n")

	sb.WriteString("DO NOT include any markdown symbols (#, *, bullet symbols, etc.) in the content. ")
	sb.WriteString("Return ONLY the clean JSON object, without any surrounding text or code fences.")

	return sb.String()
}
