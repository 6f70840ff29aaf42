package webserver

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/taxonomy"
	"github.com/forkful/v1/internal/infrastructure/storage"
	"github.com/forkful/v1/internal/ports/inbound"
	"github.com/forkful/v1/pkg/errors"
)

// maxFormMemory bounds the in-memory portion of multipart parsing.
const maxFormMemory = 8 << 20

// recipeFormData feeds the new/edit recipe form template.
type recipeFormData struct {
	Recipe      *inbound.RecipeDetail
	Categories  []taxonomy.Category
	Difficulty  []taxonomy.Difficulty
	Units       []taxonomy.Unit
	Tags        []taxonomy.Tag
	Preferences []taxonomy.DietaryPreference
	Editing     bool
}

func (s *WebServer) handleNewRecipePage(w http.ResponseWriter, r *http.Request) {
	data, err := s.recipeFormData(r, nil)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}
	s.render(w, r, "recipe_form.html", pageData{Title: "New Recipe", Data: data})
}

func (s *WebServer) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession(r)
	uid, ok := session.UserUUID()
	if !ok {
		s.renderError(w, r, http.StatusUnauthorized)
		return
	}

	cmd, err := s.recipeCommandFromForm(r)
	if err != nil {
		s.renderRecipeFormError(w, r, nil, err)
		return
	}
	cmd.AuthorID = uid

	detail, err := s.recipes.CreateRecipe(r.Context(), cmd)
	if err != nil {
		s.renderRecipeFormError(w, r, nil, err)
		return
	}

	s.metrics.RecipesCreated.Inc()
	s.redirectWithFlash(w, r, "/recipes/"+detail.ID.String(), "Recipe created.")
}

func (s *WebServer) handleEditRecipePage(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession(r)
	uid, _ := session.UserUUID()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, http.StatusNotFound)
		return
	}

	detail, err := s.recipes.GetRecipe(r.Context(), id, &uid)
	if err != nil {
		s.renderError(w, r, http.StatusNotFound)
		return
	}
	if detail.AuthorID != uid {
		s.renderError(w, r, http.StatusForbidden)
		return
	}

	data, err := s.recipeFormData(r, detail)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}
	s.render(w, r, "recipe_form.html", pageData{Title: "Edit Recipe", Data: data})
}

func (s *WebServer) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession(r)
	uid, ok := session.UserUUID()
	if !ok {
		s.renderError(w, r, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, http.StatusNotFound)
		return
	}

	cmd, err := s.recipeCommandFromForm(r)
	if err != nil {
		s.renderRecipeFormError(w, r, &id, err)
		return
	}

	updateCmd := inbound.UpdateRecipeCommand{
		RecipeID:            id,
		UserID:              uid,
		CreateRecipeCommand: cmd,
	}

	detail, err := s.recipes.UpdateRecipe(r.Context(), updateCmd)
	if err != nil {
		if errors.Is(err, errors.CodeInsufficientPermissions) {
			s.renderError(w, r, http.StatusForbidden)
			return
		}
		s.renderRecipeFormError(w, r, &id, err)
		return
	}

	s.redirectWithFlash(w, r, "/recipes/"+detail.ID.String(), "Recipe updated.")
}

func (s *WebServer) handleMyRecipes(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession(r)
	uid, ok := session.UserUUID()
	if !ok {
		s.renderError(w, r, http.StatusUnauthorized)
		return
	}

	criteria := s.criteriaFromQuery(r)
	criteria.AuthorID = &uid
	criteria.Status = statusFilter(r.URL.Query().Get("status"))

	page, err := s.recipes.ListRecipes(r.Context(), criteria)
	if err != nil {
		s.logger.Error("My recipes load failed", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}

	s.render(w, r, "my_recipes.html", pageData{Title: "My Recipes", Data: page})
}

func (s *WebServer) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession(r)
	uid, ok := session.UserUUID()
	if !ok {
		s.renderError(w, r, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, http.StatusNotFound)
		return
	}

	if err := s.recipes.DeleteRecipe(r.Context(), id, uid); err != nil {
		if errors.Is(err, errors.CodeInsufficientPermissions) {
			s.renderError(w, r, http.StatusForbidden)
			return
		}
		if errors.Is(err, errors.CodeRecipeNotFound) {
			s.renderError(w, r, http.StatusNotFound)
			return
		}
		s.logger.Error("Recipe delete failed", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}

	s.redirectWithFlash(w, r, "/my-recipes", "Recipe deleted.")
}

func (s *WebServer) handleFavorites(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession(r)
	uid, ok := session.UserUUID()
	if !ok {
		s.renderError(w, r, http.StatusUnauthorized)
		return
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 1 {
		page = p
	}

	result, err := s.recipes.ListFavorites(r.Context(), uid, page)
	if err != nil {
		s.logger.Error("Favorites load failed", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}

	s.render(w, r, "favorites.html", pageData{Title: "My Favorites", Data: result})
}

// recipeFormData loads the reference lists the recipe form needs.
func (s *WebServer) recipeFormData(r *http.Request, detail *inbound.RecipeDetail) (recipeFormData, error) {
	ctx := r.Context()
	data := recipeFormData{Recipe: detail, Editing: detail != nil}

	var err error
	if data.Categories, err = s.taxonomy.Categories(ctx); err != nil {
		return data, err
	}
	if data.Difficulty, err = s.taxonomy.Difficulties(ctx); err != nil {
		return data, err
	}
	if data.Units, err = s.taxonomy.Units(ctx); err != nil {
		return data, err
	}
	if data.Tags, err = s.taxonomy.Tags(ctx); err != nil {
		return data, err
	}
	if data.Preferences, err = s.taxonomy.DietaryPreferences(ctx); err != nil {
		return data, err
	}
	return data, nil
}

func (s *WebServer) renderRecipeFormError(w http.ResponseWriter, r *http.Request, recipeID *uuid.UUID, formErr error) {
	var detail *inbound.RecipeDetail
	if recipeID != nil {
		session := s.currentSession(r)
		if uid, ok := session.UserUUID(); ok {
			detail, _ = s.recipes.GetRecipe(r.Context(), *recipeID, &uid)
		}
	}

	data, err := s.recipeFormData(r, detail)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}

	title := "New Recipe"
	if recipeID != nil {
		title = "Edit Recipe"
	}
	s.render(w, r, "recipe_form.html", pageData{
		Title:      title,
		Data:       data,
		FormErrors: []string{errors.UserMessage(formErr)},
	})
}

// recipeCommandFromForm parses the multipart recipe form. Ingredient
// fields arrive as parallel arrays, one entry per row.
func (s *WebServer) recipeCommandFromForm(r *http.Request) (inbound.CreateRecipeCommand, error) {
	var cmd inbound.CreateRecipeCommand

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return cmd, errors.NewBadRequestError("could not parse form")
	}

	cmd.Title = strings.TrimSpace(r.PostFormValue("title"))
	cmd.Description = strings.TrimSpace(r.PostFormValue("description"))
	cmd.Instructions = strings.TrimSpace(r.PostFormValue("instructions"))
	cmd.CategoryID = parseUUIDParam(r.PostFormValue("category_id"))
	cmd.DifficultyID = parseUUIDParam(r.PostFormValue("difficulty_id"))
	cmd.PrepTime = parseIntParam(r.PostFormValue("prep_time"))
	cmd.CookTime = parseIntParam(r.PostFormValue("cook_time"))
	cmd.Servings = parseIntParam(r.PostFormValue("servings"))
	cmd.Calories = parseIntParam(r.PostFormValue("calories"))

	for _, line := range r.PostForm["step"] {
		if line = strings.TrimSpace(line); line != "" {
			cmd.Steps = append(cmd.Steps, line)
		}
	}

	names := r.PostForm["ingredient_name"]
	quantities := r.PostForm["ingredient_quantity"]
	unitIDs := r.PostForm["ingredient_unit"]
	notes := r.PostForm["ingredient_notes"]
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		input := inbound.IngredientInput{Name: name}
		if i < len(quantities) {
			if qty, err := strconv.ParseFloat(strings.TrimSpace(quantities[i]), 64); err == nil && qty > 0 {
				input.Quantity = &qty
			}
		}
		if i < len(unitIDs) {
			input.UnitID = parseUUIDParam(unitIDs[i])
		}
		if i < len(notes) {
			input.Notes = strings.TrimSpace(notes[i])
		}
		cmd.Ingredients = append(cmd.Ingredients, input)
	}

	for _, raw := range r.PostForm["tags"] {
		if id := parseUUIDParam(raw); id != nil {
			cmd.TagIDs = append(cmd.TagIDs, *id)
		}
	}
	for _, raw := range r.PostForm["preferences"] {
		if id := parseUUIDParam(raw); id != nil {
			cmd.PrefIDs = append(cmd.PrefIDs, *id)
		}
	}

	if nutrition := nutritionFromForm(r); nutrition != nil {
		cmd.Nutrition = nutrition
	}

	cmd.Status = recipe.ParseStatus(r.PostFormValue("status"))

	name, data, err := readUpload(r, "image")
	if err != nil {
		return cmd, errors.NewValidationError(err.Error())
	}
	cmd.ImageName = name
	cmd.ImageData = data

	return cmd, nil
}

// statusFilter narrows the my-recipes list. Owners see drafts alongside
// published recipes unless the param names a known status.
func statusFilter(raw string) recipe.Status {
	switch recipe.Status(raw) {
	case recipe.StatusDraft, recipe.StatusPublished:
		return recipe.Status(raw)
	default:
		return ""
	}
}

func nutritionFromForm(r *http.Request) *inbound.NutritionInput {
	n := inbound.NutritionInput{
		Calories:      parseIntParam(r.PostFormValue("nutrition_calories")),
		Carbohydrates: parseFloatParam(r.PostFormValue("nutrition_carbs")),
		Protein:       parseFloatParam(r.PostFormValue("nutrition_protein")),
		Fat:           parseFloatParam(r.PostFormValue("nutrition_fat")),
		SaturatedFat:  parseFloatParam(r.PostFormValue("nutrition_saturated_fat")),
		Sugar:         parseFloatParam(r.PostFormValue("nutrition_sugar")),
		Fiber:         parseFloatParam(r.PostFormValue("nutrition_fiber")),
		Sodium:        parseFloatParam(r.PostFormValue("nutrition_sodium")),
	}
	if n.Calories == nil && n.Carbohydrates == nil && n.Protein == nil && n.Fat == nil &&
		n.SaturatedFat == nil && n.Sugar == nil && n.Fiber == nil && n.Sodium == nil {
		return nil
	}
	return &n
}

// readUpload reads an optional file field. A missing file is not an
// error; an oversized one is.
func readUpload(r *http.Request, field string) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil, nil
		}
		return "", nil, err
	}
	defer file.Close()

	if header.Size > storage.MaxUploadSize {
		return "", nil, errors.NewValidationError("image exceeds the 5MB upload limit")
	}

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadSize+1))
	if err != nil {
		return "", nil, err
	}
	if len(data) > storage.MaxUploadSize {
		return "", nil, errors.NewValidationError("image exceeds the 5MB upload limit")
	}
	return header.Filename, data, nil
}

func parseIntParam(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

func parseFloatParam(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
