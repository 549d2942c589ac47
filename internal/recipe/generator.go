package recipe

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"
	"time"

	"weekly-menu/internal/llm"
	"weekly-menu/internal/shared"

	"github.com/google/uuid"
)

//go:embed generator_prompt.md
var generatorPrompt string

var generatorTmpl = template.Must(template.New("generator").Parse(generatorPrompt))

// GeneratorAgentName labels recipe generation in execution metrics.
const GeneratorAgentName = "RecipeGenerator"

// DefaultGenerateCount is how many recipes one generation round asks for.
const DefaultGenerateCount = 5

// ErrNoRecipesGenerated is returned when the model reply holds no usable recipe.
var ErrNoRecipesGenerated = errors.New("no recipes generated")

// GenerateResult holds the new recipes and the metadata of the LLM call.
type GenerateResult struct {
	Recipes []Recipe
	Meta    shared.AgentMeta
}

// Generator asks an LLM for recipes the catalogue does not have yet.
type Generator struct {
	textGen llm.TextGenerator
	now     func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(textGen llm.TextGenerator) *Generator {
	return &Generator{textGen: textGen, now: time.Now}
}

type generatorInput struct {
	Count    int
	Existing []string
}

type generatorReply struct {
	Recipes []Recipe `json:"recipes"`
}

// Generate returns up to n new recipes whose titles differ from existing.
// Generated recipes get IDs of the form "generated-<uuid>".
func (g *Generator) Generate(ctx context.Context, existing []Recipe, n int) (GenerateResult, error) {
	start := time.Now()
	if n <= 0 {
		n = DefaultGenerateCount
	}

	var buf bytes.Buffer
	if err := generatorTmpl.Execute(&buf, generatorInput{Count: n, Existing: Titles(existing)}); err != nil {
		return GenerateResult{}, fmt.Errorf("failed to build generator prompt: %w", err)
	}

	resp, err := g.textGen.GenerateContent(ctx, buf.String())
	if err != nil {
		return GenerateResult{}, fmt.Errorf("failed to generate recipes: %w", err)
	}
	meta := shared.NewAgentMeta(GeneratorAgentName, resp.Usage, start)

	var reply generatorReply
	if err := json.Unmarshal([]byte(llm.CleanJSON(resp.Content)), &reply); err != nil {
		return GenerateResult{Meta: meta}, fmt.Errorf("failed to parse generated recipes: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[normalizeTitle(r.Title)] = true
	}

	created := g.now().UTC()
	var out []Recipe
	for _, r := range reply.Recipes {
		key := normalizeTitle(r.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		r.ID = "generated-" + uuid.NewString()
		r.CreatedAt = created
		if r.MealCategory == "" {
			r.MealCategory = MealLunch
		}
		if r.Servings <= 0 {
			r.Servings = 1
		}
		for i := range r.Ingredients {
			r.Ingredients[i].Category = r.Ingredients[i].Category.OrOther()
		}
		out = append(out, r)
		if len(out) == n {
			break
		}
	}

	if len(out) == 0 {
		return GenerateResult{Meta: meta}, ErrNoRecipesGenerated
	}
	return GenerateResult{Recipes: out, Meta: meta}, nil
}
