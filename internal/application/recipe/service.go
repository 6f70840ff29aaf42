// Package recipe provides the application layer for recipe management
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/ports/inbound"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/forkful/v1/pkg/errors"
)

const homeSectionSize = 6

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo  outbound.RecipeRepository
	commentRepo outbound.CommentRepository
	userRepo    outbound.UserRepository
	taxonomy    outbound.TaxonomyRepository
	activity    outbound.ActivityLog
	storage     outbound.StorageService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	commentRepo outbound.CommentRepository,
	userRepo outbound.UserRepository,
	taxonomy outbound.TaxonomyRepository,
	activity outbound.ActivityLog,
	storage outbound.StorageService,
	logger *zap.Logger,
) inbound.RecipeService {
	return &RecipeService{
		recipeRepo:  recipeRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		taxonomy:    taxonomy,
		activity:    activity,
		storage:     storage,
		validate:    validator.New(),
		logger:      logger.Named("recipe-service"),
	}
}

// CreateRecipe creates a new recipe with all child rows in one transaction
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDetail, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	s.logger.Info("Creating new recipe",
		zap.String("title", cmd.Title),
		zap.String("author_id", cmd.AuthorID.String()),
	)

	entity, err := s.buildRecipe(cmd)
	if err != nil {
		return nil, err
	}

	if len(cmd.ImageData) > 0 {
		filename, err := s.storage.Save(ctx, cmd.ImageName, cmd.ImageData)
		if err != nil {
			return nil, errors.Wrap(err, "failed to store recipe image")
		}
		entity.SetImage(filename)
	}

	if err := s.recipeRepo.Create(ctx, entity); err != nil {
		// The image was stored before the transaction; remove it so a
		// failed create leaves no orphaned file behind.
		if entity.Image() != "" {
			if delErr := s.storage.Delete(ctx, entity.Image()); delErr != nil {
				s.logger.Warn("Failed to remove image for unsaved recipe",
					zap.String("filename", entity.Image()),
					zap.Error(delErr),
				)
			}
		}
		return nil, errors.NewDatabaseError("create recipe", err)
	}

	if err := s.activity.Record(ctx, cmd.AuthorID, "recipe_created", entity.ID(), "recipe"); err != nil {
		s.logger.Warn("Failed to record activity", zap.Error(err))
	}

	s.logger.Info("Recipe created",
		zap.String("recipe_id", entity.ID().String()),
		zap.String("status", string(entity.Status())),
	)

	return s.GetRecipe(ctx, entity.ID(), &cmd.AuthorID)
}

// UpdateRecipe updates an existing recipe after an ownership check
func (s *RecipeService) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDetail, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	existing, err := s.recipeRepo.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
	}
	if !existing.IsOwnedBy(cmd.UserID) {
		s.logger.Warn("Rejected foreign recipe update",
			zap.String("recipe_id", cmd.RecipeID.String()),
			zap.String("user_id", cmd.UserID.String()),
		)
		return nil, errors.NewInsufficientPermissionsError("edit this recipe")
	}

	if err := s.applyCommand(existing, cmd.CreateRecipeCommand); err != nil {
		return nil, err
	}

	if len(cmd.ImageData) > 0 {
		filename, err := s.storage.Save(ctx, cmd.ImageName, cmd.ImageData)
		if err != nil {
			return nil, errors.Wrap(err, "failed to store recipe image")
		}
		existing.SetImage(filename)
	}

	if err := s.recipeRepo.Update(ctx, existing); err != nil {
		return nil, errors.NewDatabaseError("update recipe", err)
	}

	return s.GetRecipe(ctx, cmd.RecipeID, &cmd.UserID)
}

// DeleteRecipe removes a recipe after an ownership check
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error {
	existing, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return errors.NewRecipeNotFoundError(recipeID.String())
	}
	if !existing.IsOwnedBy(userID) {
		s.logger.Warn("Rejected foreign recipe deletion",
			zap.String("recipe_id", recipeID.String()),
			zap.String("user_id", userID.String()),
		)
		return errors.NewInsufficientPermissionsError("delete this recipe")
	}

	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		return errors.NewDatabaseError("delete recipe", err)
	}

	s.logger.Info("Recipe deleted", zap.String("recipe_id", recipeID.String()))
	return nil
}

// RateRecipe records or replaces the user's rating and returns the
// fresh aggregate for the AJAX response.
func (s *RecipeService) RateRecipe(ctx context.Context, cmd inbound.RateRecipeCommand) (outbound.RatingSummary, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return outbound.RatingSummary{}, errors.NewValidationError(err.Error())
	}

	rating := recipe.Rating{
		UserID:   cmd.UserID,
		RecipeID: cmd.RecipeID,
		Value:    cmd.Rating,
	}
	if err := rating.Validate(); err != nil {
		return outbound.RatingSummary{}, errors.NewValidationError(err.Error())
	}

	if _, err := s.recipeRepo.FindByID(ctx, cmd.RecipeID); err != nil {
		return outbound.RatingSummary{}, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
	}

	summary, err := s.recipeRepo.UpsertRating(ctx, rating)
	if err != nil {
		return outbound.RatingSummary{}, errors.NewDatabaseError("upsert rating", err)
	}
	return summary, nil
}

// ToggleFavorite flips the favorite state and reports the result
func (s *RecipeService) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	if _, err := s.recipeRepo.FindByID(ctx, recipeID); err != nil {
		return false, errors.NewRecipeNotFoundError(recipeID.String())
	}

	favorited, err := s.recipeRepo.ToggleFavorite(ctx, userID, recipeID)
	if err != nil {
		return false, errors.NewDatabaseError("toggle favorite", err)
	}
	return favorited, nil
}

// AddComment stores a comment and returns it with the author resolved
func (s *RecipeService) AddComment(ctx context.Context, cmd inbound.AddCommentCommand) (*inbound.CommentView, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if _, err := s.recipeRepo.FindByID(ctx, cmd.RecipeID); err != nil {
		return nil, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
	}

	author, err := s.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, errors.NewUserNotFoundError(cmd.UserID.String())
	}

	comment, err := recipe.NewComment(cmd.RecipeID, cmd.UserID, cmd.Body)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, errors.NewDatabaseError("create comment", err)
	}

	return &inbound.CommentView{
		ID:        comment.ID,
		Username:  author.Username(),
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt.Format("Jan 2, 2006 15:04"),
	}, nil
}

// GetRecipe loads the full detail view and bumps the view counter
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID, viewerID *uuid.UUID) (*inbound.RecipeDetail, error) {
	entity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, errors.NewRecipeNotFoundError(recipeID.String())
	}

	if err := s.recipeRepo.IncrementViews(ctx, recipeID); err != nil {
		s.logger.Warn("Failed to increment views", zap.Error(err))
	}

	detail := &inbound.RecipeDetail{
		ID:           entity.ID(),
		Title:        entity.Title(),
		Description:  entity.Description(),
		Instructions: entity.Instructions(),
		Steps:        entity.DerivedSteps(),
		AuthorID:     entity.AuthorID(),
		CategoryID:   entity.CategoryID(),
		DifficultyID: entity.DifficultyID(),
		PrepTime:     entity.PrepTime(),
		CookTime:     entity.CookTime(),
		TotalTime:    entity.TotalTime(),
		Servings:     entity.Servings(),
		Calories:     entity.Calories(),
		Image:        entity.Image(),
		Status:       entity.Status(),
		Views:        entity.Views() + 1,
		TagIDs:       entity.TagIDs(),
		PrefIDs:      entity.PreferenceIDs(),
		Nutrition:    entity.Nutrition(),
		CreatedAt:    entity.CreatedAt().Format("Jan 2, 2006"),
	}

	if author, err := s.userRepo.FindByID(ctx, entity.AuthorID()); err == nil {
		detail.AuthorName = author.Username()
	}

	detail.Ingredients = s.resolveIngredients(ctx, entity.Ingredients())
	s.resolveTaxonomy(ctx, entity, detail)

	if summary, err := s.recipeRepo.RatingSummary(ctx, recipeID); err == nil {
		detail.AvgRating = summary.Average
		detail.RatingCount = summary.Count
	}

	if viewerID != nil {
		if favorited, err := s.recipeRepo.IsFavorited(ctx, *viewerID, recipeID); err == nil {
			detail.ViewerFavorited = favorited
		}
		if value, err := s.recipeRepo.UserRating(ctx, *viewerID, recipeID); err == nil {
			detail.ViewerRating = value
		}
	}

	comments, err := s.commentRepo.FindByRecipe(ctx, recipeID)
	if err != nil {
		s.logger.Warn("Failed to load comments", zap.Error(err))
	}
	for _, c := range comments {
		detail.Comments = append(detail.Comments, inbound.CommentView{
			ID:        c.ID,
			Username:  c.AuthorName,
			Body:      c.Body,
			CreatedAt: c.CreatedAt.Format("Jan 2, 2006 15:04"),
		})
	}

	return detail, nil
}

// ListRecipes runs the filter/sort query and assembles a page
func (s *RecipeService) ListRecipes(ctx context.Context, criteria outbound.SearchCriteria) (*inbound.RecipePage, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.Sort == "" {
		criteria.Sort = outbound.SortNewest
	}

	summaries, total, err := s.recipeRepo.Search(ctx, criteria)
	if err != nil {
		return nil, errors.NewDatabaseError("search recipes", err)
	}
	return buildPage(summaries, total, criteria.Page), nil
}

// ListFavorites returns a page of the user's favorited recipes
func (s *RecipeService) ListFavorites(ctx context.Context, userID uuid.UUID, page int) (*inbound.RecipePage, error) {
	if page < 1 {
		page = 1
	}
	summaries, total, err := s.recipeRepo.FindFavorites(ctx, userID, page)
	if err != nil {
		return nil, errors.NewDatabaseError("list favorites", err)
	}
	return buildPage(summaries, total, page), nil
}

// HomePage loads featured and recent recipes for the landing page
func (s *RecipeService) HomePage(ctx context.Context) (*inbound.HomeData, error) {
	featured, _, err := s.recipeRepo.Search(ctx, outbound.SearchCriteria{
		Status:       recipe.StatusPublished,
		FeaturedOnly: true,
		Sort:         outbound.SortNewest,
		Page:         1,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("load featured recipes", err)
	}

	recent, _, err := s.recipeRepo.Search(ctx, outbound.SearchCriteria{
		Status: recipe.StatusPublished,
		Sort:   outbound.SortNewest,
		Page:   1,
	})
	if err != nil {
		return nil, errors.NewDatabaseError("load recent recipes", err)
	}

	return &inbound.HomeData{
		Featured: clip(featured, homeSectionSize),
		Recent:   clip(recent, homeSectionSize),
	}, nil
}

func (s *RecipeService) buildRecipe(cmd inbound.CreateRecipeCommand) (*recipe.Recipe, error) {
	status := cmd.Status
	if status == "" {
		status = recipe.StatusDraft
	}

	entity, err := recipe.NewRecipe(cmd.Title, cmd.Description, cmd.Instructions, cmd.AuthorID, status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.applyCommand(entity, cmd); err != nil {
		return nil, err
	}
	return entity, nil
}

// applyCommand maps the shared form fields onto the aggregate.
func (s *RecipeService) applyCommand(entity *recipe.Recipe, cmd inbound.CreateRecipeCommand) error {
	if err := entity.UpdateBasics(cmd.Title, cmd.Description, cmd.Instructions); err != nil {
		return errors.NewValidationError(err.Error())
	}
	if err := entity.SetTimings(cmd.PrepTime, cmd.CookTime); err != nil {
		return errors.NewValidationError(err.Error())
	}
	if err := entity.SetServings(cmd.Servings); err != nil {
		return errors.NewValidationError(err.Error())
	}
	entity.SetCalories(cmd.Calories)
	entity.Categorize(cmd.CategoryID, cmd.DifficultyID)

	lines := make([]recipe.IngredientLine, 0, len(cmd.Ingredients))
	for _, in := range cmd.Ingredients {
		lines = append(lines, recipe.IngredientLine{
			Name:     in.Name,
			Quantity: in.Quantity,
			UnitID:   in.UnitID,
			Notes:    in.Notes,
		})
	}
	if err := entity.ReplaceIngredients(lines); err != nil {
		return errors.NewValidationError(err.Error())
	}

	steps := make([]recipe.Step, 0, len(cmd.Steps))
	for _, body := range cmd.Steps {
		steps = append(steps, recipe.Step{Body: body})
	}
	if len(steps) == 0 {
		steps = recipe.SplitInstructions(cmd.Instructions)
	}
	if err := entity.ReplaceSteps(steps); err != nil {
		return errors.NewValidationError(err.Error())
	}

	entity.SetTags(cmd.TagIDs)
	entity.SetPreferences(cmd.PrefIDs)

	if cmd.Nutrition != nil {
		entity.SetNutrition(&recipe.NutritionFacts{
			Calories:      cmd.Nutrition.Calories,
			Carbohydrates: cmd.Nutrition.Carbohydrates,
			Protein:       cmd.Nutrition.Protein,
			Fat:           cmd.Nutrition.Fat,
			SaturatedFat:  cmd.Nutrition.SaturatedFat,
			Sugar:         cmd.Nutrition.Sugar,
			Fiber:         cmd.Nutrition.Fiber,
			Sodium:        cmd.Nutrition.Sodium,
		})
	}

	status := cmd.Status
	if status == "" {
		status = recipe.StatusDraft
	}
	if err := entity.SetStatus(status); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}

func (s *RecipeService) resolveIngredients(ctx context.Context, lines []recipe.IngredientLine) []inbound.IngredientView {
	unitNames := make(map[uuid.UUID]string)
	if units, err := s.taxonomy.Units(ctx); err == nil {
		for _, u := range units {
			unitNames[u.ID] = u.Abbreviation
		}
	}

	views := make([]inbound.IngredientView, 0, len(lines))
	for _, l := range lines {
		v := inbound.IngredientView{
			Name:     l.Name,
			Quantity: l.Quantity,
			Notes:    l.Notes,
		}
		if l.UnitID != nil {
			v.UnitID = l.UnitID
			v.UnitName = unitNames[*l.UnitID]
		}
		views = append(views, v)
	}
	return views
}

func (s *RecipeService) resolveTaxonomy(ctx context.Context, entity *recipe.Recipe, detail *inbound.RecipeDetail) {
	if entity.CategoryID() != nil {
		if categories, err := s.taxonomy.Categories(ctx); err == nil {
			for _, c := range categories {
				if c.ID == *entity.CategoryID() {
					detail.CategoryName = c.Name
				}
			}
		}
	}
	if entity.DifficultyID() != nil {
		if difficulties, err := s.taxonomy.Difficulties(ctx); err == nil {
			for _, d := range difficulties {
				if d.ID == *entity.DifficultyID() {
					detail.DifficultyName = d.Name
				}
			}
		}
	}
}

func buildPage(summaries []outbound.RecipeSummary, total, page int) *inbound.RecipePage {
	totalPages := int(math.Ceil(float64(total) / float64(outbound.PageSize)))
	return &inbound.RecipePage{
		Recipes:    summaries,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
}

func clip(s []outbound.RecipeSummary, n int) []outbound.RecipeSummary {
	if len(s) > n {
		return s[:n]
	}
	return s
}
