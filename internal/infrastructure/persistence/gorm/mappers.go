package gorm

import (
	"sort"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/user"
)

// RecipeToModel converts a domain recipe to its GORM model tree.
// Child rows carry the recipe id so the whole tree saves in one pass.
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	model := &RecipeModel{
		ID:           r.ID(),
		Title:        r.Title(),
		Description:  r.Description(),
		Instructions: r.Instructions(),
		AuthorID:     r.AuthorID(),
		CategoryID:   r.CategoryID(),
		DifficultyID: r.DifficultyID(),
		PrepTime:     r.PrepTime(),
		CookTime:     r.CookTime(),
		TotalTime:    r.TotalTime(),
		Servings:     r.Servings(),
		Calories:     r.Calories(),
		Image:        r.Image(),
		Status:       string(r.Status()),
		Featured:     r.Featured(),
		Views:        r.Views(),
		CreatedAt:    r.CreatedAt(),
		UpdatedAt:    r.UpdatedAt(),
	}

	for _, step := range r.Steps() {
		model.Instruction = append(model.Instruction, RecipeInstructionModel{
			RecipeID:   r.ID(),
			StepNumber: step.Number,
			Body:       step.Body,
			Image:      step.Image,
		})
	}

	for _, tagID := range r.TagIDs() {
		model.Tags = append(model.Tags, RecipeTagModel{RecipeID: r.ID(), TagID: tagID})
	}
	for _, prefID := range r.PreferenceIDs() {
		model.Preferences = append(model.Preferences, RecipePreferenceModel{RecipeID: r.ID(), PreferenceID: prefID})
	}

	if n := r.Nutrition(); n != nil {
		model.Nutrition = &NutritionModel{
			RecipeID:      r.ID(),
			Calories:      n.Calories,
			Carbohydrates: n.Carbohydrates,
			Protein:       n.Protein,
			Fat:           n.Fat,
			SaturatedFat:  n.SaturatedFat,
			Sugar:         n.Sugar,
			Fiber:         n.Fiber,
			Sodium:        n.Sodium,
		}
	}

	return model
}

// ModelToRecipe converts a loaded GORM model tree back to the domain
// aggregate via its snapshot.
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	snap := recipe.Snapshot{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Instructions: m.Instructions,
		AuthorID:     m.AuthorID,
		CategoryID:   m.CategoryID,
		DifficultyID: m.DifficultyID,
		PrepTime:     m.PrepTime,
		CookTime:     m.CookTime,
		TotalTime:    m.TotalTime,
		Servings:     m.Servings,
		Calories:     m.Calories,
		Image:        m.Image,
		Status:       recipe.Status(m.Status),
		Featured:     m.Featured,
		Views:        m.Views,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	lines := make([]recipe.IngredientLine, 0, len(m.Ingredients))
	ingredientRows := append([]RecipeIngredientModel(nil), m.Ingredients...)
	sort.Slice(ingredientRows, func(i, j int) bool {
		return ingredientRows[i].Position < ingredientRows[j].Position
	})
	for _, row := range ingredientRows {
		lines = append(lines, recipe.IngredientLine{
			Name:     row.Ingredient.Name,
			Quantity: row.Quantity,
			UnitID:   row.UnitID,
			Notes:    row.Notes,
			Position: row.Position,
		})
	}
	snap.Ingredients = lines

	stepRows := append([]RecipeInstructionModel(nil), m.Instruction...)
	sort.Slice(stepRows, func(i, j int) bool {
		return stepRows[i].StepNumber < stepRows[j].StepNumber
	})
	steps := make([]recipe.Step, 0, len(stepRows))
	for _, row := range stepRows {
		steps = append(steps, recipe.Step{Number: row.StepNumber, Body: row.Body, Image: row.Image})
	}
	snap.Steps = steps

	for _, t := range m.Tags {
		snap.TagIDs = append(snap.TagIDs, t.TagID)
	}
	for _, p := range m.Preferences {
		snap.PreferenceIDs = append(snap.PreferenceIDs, p.PreferenceID)
	}

	if m.Nutrition != nil {
		snap.Nutrition = &recipe.NutritionFacts{
			Calories:      m.Nutrition.Calories,
			Carbohydrates: m.Nutrition.Carbohydrates,
			Protein:       m.Nutrition.Protein,
			Fat:           m.Nutrition.Fat,
			SaturatedFat:  m.Nutrition.SaturatedFat,
			Sugar:         m.Nutrition.Sugar,
			Fiber:         m.Nutrition.Fiber,
			Sodium:        m.Nutrition.Sodium,
		}
	}

	return recipe.Rehydrate(snap)
}

// UserToModel converts a domain user to its GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Username:     u.Username(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		Name:         u.Name(),
		Bio:          u.Bio(),
		Avatar:       u.Avatar(),
		IsActive:     u.IsActive(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
		LastLoginAt:  u.LastLoginAt(),
	}
}

// ModelToUser converts a GORM model back to the domain user
func ModelToUser(m *UserModel) *user.User {
	return user.Rehydrate(user.Snapshot{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Bio:          m.Bio,
		Avatar:       m.Avatar,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		LastLoginAt:  m.LastLoginAt,
	})
}

// CommentToModel converts a domain comment to its GORM model
func CommentToModel(c recipe.Comment) *CommentModel {
	return &CommentModel{
		ID:        c.ID,
		RecipeID:  c.RecipeID,
		UserID:    c.UserID,
		ParentID:  c.ParentID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// ModelToComment converts a GORM model to the domain comment
func ModelToComment(m *CommentModel) recipe.Comment {
	return recipe.Comment{
		ID:         m.ID,
		RecipeID:   m.RecipeID,
		UserID:     m.UserID,
		ParentID:   m.ParentID,
		Body:       m.Body,
		AuthorName: m.User.Username,
		CreatedAt:  m.CreatedAt,
	}
}
