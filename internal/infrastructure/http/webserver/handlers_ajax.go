package webserver

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/ports/inbound"
	"github.com/forkful/v1/pkg/errors"
)

type rateRequest struct {
	RecipeID string `json:"recipe_id"`
	Rating   int    `json:"rating"`
}

type favoriteRequest struct {
	RecipeID string `json:"recipe_id"`
}

type commentRequest struct {
	RecipeID string `json:"recipe_id"`
	Comment  string `json:"comment"`
}

func (s *WebServer) handleAjaxRate(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.currentSession(r).UserUUID()
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "login required")
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	summary, err := s.recipes.RateRecipe(r.Context(), inbound.RateRecipeCommand{
		RecipeID: recipeID,
		UserID:   uid,
		Rating:   req.Rating,
	})
	if err != nil {
		s.writeAjaxError(w, err, "rate recipe")
		return
	}

	s.metrics.RatingsRecorded.Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"avg_rating":   summary.Average,
		"rating_count": summary.Count,
	})
}

func (s *WebServer) handleAjaxFavorite(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.currentSession(r).UserUUID()
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "login required")
		return
	}

	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	favorited, err := s.recipes.ToggleFavorite(r.Context(), uid, recipeID)
	if err != nil {
		s.writeAjaxError(w, err, "toggle favorite")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"favorited": favorited,
	})
}

func (s *WebServer) handleAjaxComment(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.currentSession(r).UserUUID()
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "login required")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	view, err := s.recipes.AddComment(r.Context(), inbound.AddCommentCommand{
		RecipeID: recipeID,
		UserID:   uid,
		Body:     req.Comment,
	})
	if err != nil {
		s.writeAjaxError(w, err, "add comment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"comment":    view,
		"username":   view.Username,
		"created_at": view.CreatedAt,
	})
}

// writeAjaxError maps an application error to a JSON response.
func (s *WebServer) writeAjaxError(w http.ResponseWriter, err error, action string) {
	status := http.StatusInternalServerError
	if appErr, ok := err.(*errors.AppError); ok {
		status = appErr.StatusCode()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("AJAX request failed", zap.String("action", action), zap.Error(err))
	}
	writeJSONError(w, status, errors.UserMessage(err))
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
