package shopping

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"weekly-menu/internal/llm"
	"weekly-menu/internal/planner"
	"weekly-menu/internal/recipe"
	"weekly-menu/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoMealPlan is returned when the week has no plan or the plan has no meals.
	ErrNoMealPlan = errors.New("no meal plan to generate a shopping list from")
	// ErrNotPersisted means the returned list is only held in memory.
	ErrNotPersisted = errors.New("shopping list kept locally, not persisted")
	// ErrListNotFound is returned when the owner has no list for the week.
	ErrListNotFound = errors.New("shopping list not found")
	// ErrItemIndexOutOfRange is returned by UpdateItem for a bad index.
	ErrItemIndexOutOfRange = errors.New("shopping list item index out of range")
)

// Store persists shopping lists.
type Store interface {
	GetByOwnerAndWeek(ctx context.Context, ownerID, weekStart string) (*ShoppingList, error)
	Save(ctx context.Context, list *ShoppingList) error
	UpdateItems(ctx context.Context, listID string, items []Item) error
}

// PlanSource returns a user's meal plan for a week, or nil, nil.
type PlanSource interface {
	Get(ctx context.Context, u *user.User, week string) (*planner.MealPlan, error)
}

// RecipeSource resolves recipes in bulk.
type RecipeSource interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]recipe.Recipe, error)
}

// Service builds, stores and edits shopping lists.
type Service struct {
	store   Store
	plans   PlanSource
	recipes RecipeSource
	prices  *PriceTable
	textGen llm.TextGenerator
	logger  *zap.Logger

	mu    sync.Mutex
	local map[string]*ShoppingList
}

// NewService creates a Service. textGen may be nil, which disables ComparePrices.
func NewService(store Store, plans PlanSource, recipes RecipeSource, prices *PriceTable, textGen llm.TextGenerator, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		plans:   plans,
		recipes: recipes,
		prices:  prices,
		textGen: textGen,
		logger:  logger,
		local:   make(map[string]*ShoppingList),
	}
}

func localKey(ownerID, weekStart string) string {
	return ownerID + "|" + weekStart
}

// Generate builds the list for plan and creates or fully replaces the
// owner's stored list for the plan's week. Purchased flags are not carried
// over from a previous list.
//
// When the store fails the computed list is still returned, together with
// an error wrapping ErrNotPersisted, and Current serves it from memory.
func (s *Service) Generate(ctx context.Context, ownerID string, plan *planner.MealPlan, recipes []recipe.Recipe) (*ShoppingList, error) {
	if !plan.HasMeals() {
		return nil, ErrNoMealPlan
	}

	items := Aggregate(plan.Meals, LookupFromRecipes(recipes), s.prices)
	list := &ShoppingList{
		OwnerID:            ownerID,
		MealPlanID:         plan.ID,
		WeekStart:          plan.WeekStart,
		Items:              items,
		TotalEstimatedCost: TotalCost(items).InexactFloat64(),
		Status:             StatusPending,
	}

	existing, err := s.store.GetByOwnerAndWeek(ctx, ownerID, plan.WeekStart)
	if err != nil {
		return s.keepLocal(list, err)
	}
	if existing != nil {
		list.ID = existing.ID
		list.CreatedAt = existing.CreatedAt
	} else {
		list.ID = uuid.NewString()
	}
	if err := s.store.Save(ctx, list); err != nil {
		return s.keepLocal(list, err)
	}

	s.dropLocal(ownerID, plan.WeekStart)
	s.logger.Info("shopping list generated",
		zap.String("owner_id", ownerID),
		zap.String("week_start", plan.WeekStart),
		zap.Int("items", len(list.Items)),
		zap.Bool("replaced", existing != nil),
	)
	return list, nil
}

// GenerateForWeek loads the user's plan for week and its recipes, then calls Generate.
func (s *Service) GenerateForWeek(ctx context.Context, u *user.User, week string) (*ShoppingList, error) {
	plan, err := s.plans.Get(ctx, u, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	if !plan.HasMeals() {
		return nil, ErrNoMealPlan
	}

	byID, err := s.recipes.GetByIDs(ctx, plan.RecipeIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	recipes := make([]recipe.Recipe, 0, len(byID))
	for _, r := range byID {
		recipes = append(recipes, r)
	}
	return s.Generate(ctx, u.ID, plan, recipes)
}

// Current returns the owner's list for the week containing week. A list
// whose last save failed is saved again first; while the store keeps
// failing it is served from memory with an error wrapping ErrNotPersisted.
func (s *Service) Current(ctx context.Context, ownerID, week string) (*ShoppingList, error) {
	weekStart, err := planner.NormalizeWeek(week)
	if err != nil {
		return nil, err
	}
	if list := s.getLocal(ownerID, weekStart); list != nil {
		return s.flushLocal(ctx, list)
	}

	list, err := s.store.GetByOwnerAndWeek(ctx, ownerID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	return list, nil
}

// UpdateItem patches the item at index and stores the full items array.
// The total is not recomputed. The status follows the purchased flags.
func (s *Service) UpdateItem(ctx context.Context, ownerID, week string, index int, patch ItemPatch) (*ShoppingList, error) {
	weekStart, err := planner.NormalizeWeek(week)
	if err != nil {
		return nil, err
	}

	if list, ok := s.patchLocal(ownerID, weekStart, index, patch); ok {
		if list == nil {
			return nil, ErrItemIndexOutOfRange
		}
		return s.flushLocal(ctx, list)
	}

	list, err := s.store.GetByOwnerAndWeek(ctx, ownerID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	if index < 0 || index >= len(list.Items) {
		return nil, fmt.Errorf("%w: %d of %d", ErrItemIndexOutOfRange, index, len(list.Items))
	}

	patch.Apply(&list.Items[index])
	list.Status = statusOf(list.Items)
	if err := s.store.UpdateItems(ctx, list.ID, list.Items); err != nil {
		return s.keepLocal(list, err)
	}
	return list, nil
}

func (s *Service) keepLocal(list *ShoppingList, cause error) (*ShoppingList, error) {
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.local[localKey(list.OwnerID, list.WeekStart)] = list.clone()
	s.mu.Unlock()

	s.logger.Error("shopping list kept in memory",
		zap.String("owner_id", list.OwnerID),
		zap.String("week_start", list.WeekStart),
		zap.Error(cause),
	)
	return list, fmt.Errorf("%w: %v", ErrNotPersisted, cause)
}

// flushLocal saves a list held in memory as a whole, since its week may
// have no stored row yet.
func (s *Service) flushLocal(ctx context.Context, list *ShoppingList) (*ShoppingList, error) {
	seen := list.UpdatedAt
	if err := s.store.Save(ctx, list); err != nil {
		return s.keepLocal(list, err)
	}
	s.dropLocalIfUnchanged(list.OwnerID, list.WeekStart, seen)
	s.logger.Info("shopping list stored after earlier failure",
		zap.String("owner_id", list.OwnerID),
		zap.String("week_start", list.WeekStart),
	)
	return list, nil
}

func (s *Service) dropLocal(ownerID, weekStart string) {
	s.mu.Lock()
	delete(s.local, localKey(ownerID, weekStart))
	s.mu.Unlock()
}

// dropLocalIfUnchanged keeps the entry when it was patched after seen.
func (s *Service) dropLocalIfUnchanged(ownerID, weekStart string, seen time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := localKey(ownerID, weekStart)
	if l, ok := s.local[key]; ok && l.UpdatedAt.Equal(seen) {
		delete(s.local, key)
	}
}

func (s *Service) getLocal(ownerID, weekStart string) *ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.local[localKey(ownerID, weekStart)]; ok {
		return l.clone()
	}
	return nil
}

// patchLocal applies patch to an in-memory list. ok is false when there is
// no such list; a nil list with ok true means the index was out of range.
func (s *Service) patchLocal(ownerID, weekStart string, index int, patch ItemPatch) (list *ShoppingList, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, found := s.local[localKey(ownerID, weekStart)]
	if !found {
		return nil, false
	}
	if index < 0 || index >= len(l.Items) {
		return nil, true
	}
	patch.Apply(&l.Items[index])
	l.Status = statusOf(l.Items)
	l.UpdatedAt = time.Now().UTC()
	return l.clone(), true
}
