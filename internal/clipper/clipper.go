package clipper

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"text/template"
	"time"

	"weekly-menu/internal/llm"
	"weekly-menu/internal/recipe"
	"weekly-menu/internal/shared"

	"github.com/PuerkitoBio/goquery"
)

//go:embed clipper_prompt.md
var clipperPrompt string

var clipperTmpl = template.Must(template.New("clipper").Parse(clipperPrompt))

// AgentName labels recipe imports in execution metrics.
const AgentName = "Clipper"

// maxContentRunes caps the page text sent to the model.
const maxContentRunes = 12000

// ErrNoRecipe is returned when the page does not yield a usable recipe.
var ErrNoRecipe = errors.New("no recipe found on page")

// RecipeSaver stores imported recipes.
type RecipeSaver interface {
	Save(ctx context.Context, rec *recipe.Recipe) error
}

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	store      RecipeSaver
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// NewClipper creates a new Clipper instance.
func NewClipper(store RecipeSaver, textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		store:      store,
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type page struct {
	Text     string
	ImageURL string
}

// Import fetches url, extracts the recipe with the LLM and saves it.
func (c *Clipper) Import(ctx context.Context, url string) (*recipe.Recipe, shared.AgentMeta, error) {
	start := time.Now()

	p, err := c.fetchPage(ctx, url)
	if err != nil {
		return nil, shared.AgentMeta{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	var prompt bytes.Buffer
	if err := clipperTmpl.Execute(&prompt, p.Text); err != nil {
		return nil, shared.AgentMeta{}, fmt.Errorf("failed to build clipper prompt: %w", err)
	}

	resp, err := c.textGen.GenerateContent(ctx, prompt.String())
	if err != nil {
		return nil, shared.AgentMeta{}, fmt.Errorf("ai extraction failed: %w", err)
	}
	meta := shared.NewAgentMeta(AgentName, resp.Usage, start)

	var rec recipe.Recipe
	if err := json.Unmarshal([]byte(llm.CleanJSON(resp.Content)), &rec); err != nil {
		return nil, meta, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if strings.TrimSpace(rec.Title) == "" || len(rec.Ingredients) == 0 {
		return nil, meta, ErrNoRecipe
	}

	normalize(&rec, p.ImageURL)
	if err := c.store.Save(ctx, &rec); err != nil {
		return nil, meta, fmt.Errorf("failed to save imported recipe: %w", err)
	}
	return &rec, meta, nil
}

func normalize(rec *recipe.Recipe, imageURL string) {
	rec.ID = ""
	rec.CreatedAt = time.Time{}
	if rec.ImageURL == "" {
		rec.ImageURL = imageURL
	}
	if rec.MealCategory == "" {
		rec.MealCategory = recipe.MealDinner
	}
	if rec.Servings <= 0 {
		rec.Servings = 1
	}
	for i := range rec.Ingredients {
		rec.Ingredients[i].Category = rec.Ingredients[i].Category.OrOther()
	}
	rec.Tags = append(rec.Tags, "importada")
}

func (c *Clipper) fetchPage(ctx context.Context, url string) (page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return page{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return page{}, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return page{}, err
	}

	image, _ := doc.Find(`meta[property="og:image"]`).Attr("content")

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, header, footer, aside, iframe, form, .ads, #ads, .comments").Remove()

	return page{Text: compact(doc.Find("body").Text()), ImageURL: image}, nil
}

// compact collapses whitespace and truncates to maxContentRunes.
func compact(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxContentRunes {
		s = string(r[:maxContentRunes])
	}
	return s
}
