package recipes

import (
	"context"
	"fmt"
	"time"

	"recipe-manager/core/cache"
	rerrors "recipe-manager/core/errors"
	"recipe-manager/core/logger"
	"recipe-manager/core/reconcile"
	"recipe-manager/feature/recipes/media"
	"recipe-manager/feature/recipes/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const summariesKey = "recipes:summaries"

// Result reports the outcome of an aggregate write.
type Result struct {
	Success   bool                    `json:"success"`
	Message   string                  `json:"message"`
	Code      rerrors.ErrorCode       `json:"code,omitempty"`
	Content   *models.Recipe          `json:"content,omitempty"`
	Changes   int                     `json:"changes"`
	Summaries []reconcile.PlanSummary `json:"summaries,omitempty"`
	Rejected  []media.Rejection       `json:"rejected,omitempty"`
}

// ChildWrites returns the number of child rows the write staged.
func (r Result) ChildWrites() int {
	return childWrites(r.Summaries)
}

func childWrites(summaries []reconcile.PlanSummary) int {
	n := 0
	for _, s := range summaries {
		n += s.Writes()
	}
	return n
}

// Service orchestrates reads and writes of the recipe aggregate.
type Service struct {
	store  *Store
	media  *media.Helper
	cache  *cache.Cache
	logger *zap.Logger
}

// NewService creates a new recipe service.
func NewService(store *Store, helper *media.Helper, c *cache.Cache, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		media:  helper,
		cache:  c,
		logger: logger,
	}
}

// GetAll returns the summaries of every recipe.
func (s *Service) GetAll(ctx context.Context) ([]models.RecipeSummary, error) {
	return cache.GetOrLoad(ctx, s.cache, summariesKey, func(ctx context.Context) ([]models.RecipeSummary, error) {
		recipes, err := s.store.ListRecipes(ctx)
		if err != nil {
			return nil, err
		}
		summaries := make([]models.RecipeSummary, 0, len(recipes))
		for _, r := range recipes {
			summaries = append(summaries, r.Summarize())
		}
		return summaries, nil
	})
}

// GetOne returns a recipe with its media content loaded, or nil when it does not exist.
func (s *Service) GetOne(ctx context.Context, id int) (*models.RecipeDetail, error) {
	recipe, err := s.store.FindRecipe(ctx, id)
	if err != nil || recipe == nil {
		return nil, err
	}

	loaded := s.media.LocateAndLoadMedias(ctx, recipe.Medias)
	found := make(map[int]struct{}, len(loaded))
	for _, m := range loaded {
		found[m.ID] = struct{}{}
	}

	detail := &models.RecipeDetail{Recipe: recipe}
	for _, m := range recipe.Medias {
		if _, ok := found[m.ID]; !ok {
			detail.MissingMedia = append(detail.MissingMedia, m.ID)
		}
	}
	recipe.Medias = loaded
	return detail, nil
}

// AddOne inserts a new recipe with its children. Client ids are ignored and
// media are stored with the two-phase save. On failure nothing is persisted
// and files written during the attempt are removed.
func (s *Service) AddOne(ctx context.Context, desired *models.Recipe) Result {
	if err := desired.Validate(); err != nil {
		return s.fail(err, desired, "add")
	}

	prepared, outcome := s.media.Prepare(ctx, desired.Medias, nil)
	desired.Medias = prepared
	resetIdentities(desired)

	cs := reconcile.NewChangeSet()
	row := desired.Row()
	row.AuditDate = time.Time{}
	row.CreationDate = time.Time{}
	cs.Insert(row, reconcile.WithAfter(func(ctx context.Context, tx *gorm.DB) error {
		desired.AssignRecipe(row.ID)
		desired.AuditDate = row.AuditDate
		desired.CreationDate = row.CreationDate
		return nil
	}))

	summaries, err := s.stageChildren(ctx, cs, desired, &models.Recipe{})
	if err != nil {
		return s.fail(err, desired, "add")
	}

	changes, err := s.store.Commit(ctx, cs)
	if err != nil {
		desired.ID = 0
		return s.fail(err, failingEntity(err, desired), "add")
	}

	s.cache.Invalidate(ctx, summariesKey)
	s.logger.Info("Recipe added",
		zap.Int("recipe_id", desired.ID),
		zap.Int("changes", changes),
		zap.Int("rejected_media", len(outcome.Rejected)))

	return Result{
		Success:   true,
		Message:   successMessage("recipe created", outcome),
		Content:   desired,
		Changes:   changes,
		Summaries: summaries,
		Rejected:  outcome.Rejected,
	}
}

// UpdateOne reconciles the stored recipe with desired: ingredients,
// instructions, media and category links are diffed and applied, scalar
// fields are overwritten except the store-generated dates, and everything is
// committed once.
func (s *Service) UpdateOne(ctx context.Context, desired *models.Recipe) Result {
	if err := desired.Validate(); err != nil {
		return s.fail(err, desired, "update")
	}

	current, err := s.store.FindRecipe(ctx, desired.ID)
	if err != nil {
		return s.fail(err, desired, "update")
	}
	if current == nil {
		return Result{
			Code:    rerrors.ErrCodeNotFound,
			Message: fmt.Sprintf("recipe %d not found", desired.ID),
		}
	}

	desired.AssignRecipe(current.ID)
	prepared, outcome := s.media.Prepare(ctx, desired.Medias, current.Medias)
	desired.Medias = prepared

	cs := reconcile.NewChangeSet()
	summaries, err := s.stageChildren(ctx, cs, desired, current)
	if err != nil {
		return s.fail(err, desired, "update")
	}

	// Rewriting the row moves the audit date; skip it when nothing changed.
	row := current.Row()
	if !current.EqualScalars(desired) || childWrites(summaries) > 0 {
		current.CopyScalars(desired)
		row = current.Row()
		cs.Update(row)
	}

	changes, err := s.store.Commit(ctx, cs)
	if err != nil {
		return s.fail(err, failingEntity(err, desired), "update")
	}

	s.cache.Invalidate(ctx, summariesKey)
	s.logger.Info("Recipe updated",
		zap.Int("recipe_id", current.ID),
		zap.Int("changes", changes),
		zap.Int("rejected_media", len(outcome.Rejected)))

	desired.AuditDate = row.AuditDate
	desired.CreationDate = row.CreationDate
	return Result{
		Success:   true,
		Message:   successMessage("recipe updated", outcome),
		Content:   desired,
		Changes:   changes,
		Summaries: summaries,
		Rejected:  outcome.Rejected,
	}
}

// Preview stages the same reconciliation as UpdateOne without committing it.
// Media content is decoded and compared but nothing is written.
func (s *Service) Preview(ctx context.Context, desired *models.Recipe) Result {
	if err := desired.Validate(); err != nil {
		return s.fail(err, desired, "preview")
	}

	current, err := s.store.FindRecipe(ctx, desired.ID)
	if err != nil {
		return s.fail(err, desired, "preview")
	}
	if current == nil {
		return Result{
			Code:    rerrors.ErrCodeNotFound,
			Message: fmt.Sprintf("recipe %d not found", desired.ID),
		}
	}

	desired.AssignRecipe(current.ID)
	prepared, outcome := s.media.Prepare(ctx, desired.Medias, current.Medias)
	desired.Medias = prepared

	cs := reconcile.NewChangeSet()
	summaries, err := s.stageChildren(ctx, cs, desired, current)
	if err != nil {
		return s.fail(err, desired, "preview")
	}

	res := Result{
		Success:   true,
		Message:   successMessage("plan computed", outcome),
		Summaries: summaries,
		Rejected:  outcome.Rejected,
	}
	res.Changes = res.ChildWrites()
	return res
}

// DeleteOne removes a recipe and everything it owns, in order: media files,
// media rows, instructions, ingredients, category links, then the recipe.
// It returns false when the recipe does not exist.
func (s *Service) DeleteOne(ctx context.Context, id int) (bool, error) {
	recipe, err := s.store.FindRecipe(ctx, id)
	if err != nil {
		return false, err
	}
	if recipe == nil {
		return false, nil
	}

	cs := reconcile.NewChangeSet()
	for _, m := range recipe.Medias {
		s.media.StageFileRemoval(cs, m)
	}
	for _, m := range recipe.Medias {
		cs.Delete(m)
	}
	for _, i := range recipe.Instructions {
		cs.Delete(i)
	}
	for _, i := range recipe.Ingredients {
		cs.Delete(i)
	}
	for _, c := range recipe.Categories {
		cs.Delete(c)
	}
	cs.Delete(recipe.Row())

	changes, err := s.store.Commit(ctx, cs)
	if err != nil {
		s.logFailure(err, failingEntity(err, recipe), "delete")
		return false, err
	}

	s.cache.Invalidate(ctx, summariesKey)
	s.logger.Info("Recipe deleted", zap.Int("recipe_id", id), zap.Int("changes", changes))
	return true, nil
}

// stageChildren reconciles every child collection of desired against current,
// in order: ingredients, instructions, media, category links.
func (s *Service) stageChildren(ctx context.Context, cs *reconcile.ChangeSet, desired, current *models.Recipe) ([]reconcile.PlanSummary, error) {
	var summaries []reconcile.PlanSummary
	collect := func(sum reconcile.PlanSummary, err error) error {
		if err != nil {
			return err
		}
		summaries = append(summaries, sum)
		return nil
	}

	if err := collect(reconcile.Reconcile[*models.Ingredient](cs, "ingredients", desired.Ingredients, current.Ingredients,
		reconcile.DefaultStager[*models.Ingredient]{})); err != nil {
		return nil, err
	}
	if err := collect(reconcile.Reconcile[*models.Instruction](cs, "instructions", desired.Instructions, current.Instructions,
		reconcile.DefaultStager[*models.Instruction]{})); err != nil {
		return nil, err
	}
	if err := collect(reconcile.Reconcile[*models.Media](cs, "medias", desired.Medias, current.Medias,
		s.media.Stager())); err != nil {
		return nil, err
	}
	if err := collect(reconcile.Reconcile[*models.RecipeCategory](cs, "categories", desired.Categories, current.Categories,
		categoryStager{})); err != nil {
		return nil, err
	}
	return summaries, nil
}

// fail logs err with the failing entity and converts it into a result.
func (s *Service) fail(err error, entity any, op string) Result {
	s.logFailure(err, entity, op)
	return Result{
		Code:    rerrors.CodeOf(err),
		Message: err.Error(),
	}
}

func (s *Service) logFailure(err error, entity any, op string) {
	s.logger.Error("Recipe "+op+" failed",
		zap.String("entity_type", fmt.Sprintf("%T", entity)),
		logger.Entity("entity", entity),
		zap.String("code", string(rerrors.CodeOf(err))),
		zap.Error(err))
}

// failingEntity returns the entity recorded on a structured error, or fallback.
func failingEntity(err error, fallback any) any {
	if se, ok := rerrors.AsStructured(err); ok {
		if e, ok := se.Context["entity"]; ok && e != nil {
			return e
		}
	}
	return fallback
}

func resetIdentities(r *models.Recipe) {
	r.ID = 0
	for _, i := range r.Ingredients {
		i.ResetIdentity()
	}
	for _, i := range r.Instructions {
		i.ResetIdentity()
	}
	for _, m := range r.Medias {
		m.ResetIdentity()
	}
	for _, c := range r.Categories {
		c.ResetIdentity()
	}
}

func successMessage(base string, outcome media.SaveOutcome) string {
	if outcome.OK() {
		return base
	}
	return fmt.Sprintf("%s, %d media item(s) rejected", base, len(outcome.Rejected))
}

// categoryStager never issues updates: a link is either kept, added or removed.
type categoryStager struct {
	reconcile.DefaultStager[*models.RecipeCategory]
}

func (categoryStager) StageUpdate(cs *reconcile.ChangeSet, current, desired *models.RecipeCategory) {}
