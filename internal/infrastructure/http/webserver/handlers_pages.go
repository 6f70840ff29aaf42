package webserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/application/contact"
	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/taxonomy"
	"github.com/forkful/v1/internal/ports/inbound"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/forkful/v1/pkg/errors"
)

// listingData feeds the browse and search templates.
type listingData struct {
	Page        *inbound.RecipePage
	Categories  []taxonomy.Category
	Difficulty  []taxonomy.Difficulty
	Preferences []taxonomy.DietaryPreference
	Tags        []taxonomy.Tag
	Query       string
	Selected    map[string]string
	Sort        string
}

func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	home, err := s.recipes.HomePage(r.Context())
	if err != nil {
		s.logger.Error("Home page load failed", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}

	categories, err := s.taxonomy.Categories(r.Context())
	if err != nil {
		s.logger.Warn("Failed to load categories", zap.Error(err))
	}

	s.render(w, r, "home.html", pageData{
		Title: "Home",
		Data: struct {
			Home       *inbound.HomeData
			Categories []taxonomy.Category
		}{home, categories},
	})
}

func (s *WebServer) handleRecipeList(w http.ResponseWriter, r *http.Request) {
	criteria := s.criteriaFromQuery(r)
	criteria.Status = recipe.StatusPublished
	s.renderListing(w, r, "recipes.html", "Browse Recipes", criteria)
}

func (s *WebServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	criteria := s.criteriaFromQuery(r)
	criteria.Status = recipe.StatusPublished
	s.renderListing(w, r, "search.html", "Search Results", criteria)
}

func (s *WebServer) renderListing(w http.ResponseWriter, r *http.Request, tmpl, title string, criteria outbound.SearchCriteria) {
	page, err := s.recipes.ListRecipes(r.Context(), criteria)
	if err != nil {
		s.logger.Error("Listing failed", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}

	data := listingData{
		Page:     page,
		Sort:     string(criteria.Sort),
		Selected: selectedFilters(r),
	}
	if criteria.Query != nil {
		data.Query = *criteria.Query
	}

	ctx := r.Context()
	data.Categories, _ = s.taxonomy.Categories(ctx)
	data.Difficulty, _ = s.taxonomy.Difficulties(ctx)
	data.Preferences, _ = s.taxonomy.DietaryPreferences(ctx)
	data.Tags, _ = s.taxonomy.Tags(ctx)

	s.render(w, r, tmpl, pageData{Title: title, Data: data})
}

func (s *WebServer) handleCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := s.taxonomy.CategoriesWithCounts(r.Context())
	if err != nil {
		s.logger.Error("Category counts failed", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}
	s.render(w, r, "categories.html", pageData{Title: "Categories", Data: counts})
}

func (s *WebServer) handleRecipeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, http.StatusNotFound)
		return
	}

	session := s.currentSession(r)
	var viewerID *uuid.UUID
	if uid, ok := session.UserUUID(); ok {
		viewerID = &uid
	}

	detail, err := s.recipes.GetRecipe(r.Context(), id, viewerID)
	if err != nil {
		if errors.Is(err, errors.CodeRecipeNotFound) {
			s.renderError(w, r, http.StatusNotFound)
			return
		}
		s.logger.Error("Recipe detail failed", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}

	// Drafts are only visible to their author.
	if detail.Status != recipe.StatusPublished {
		if viewerID == nil || *viewerID != detail.AuthorID {
			s.renderError(w, r, http.StatusNotFound)
			return
		}
	}

	s.render(w, r, "recipe_detail.html", pageData{Title: detail.Title, Data: detail})
}

func (s *WebServer) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "about.html", pageData{Title: "About"})
}

func (s *WebServer) handleContactPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "contact.html", pageData{Title: "Contact"})
}

func (s *WebServer) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest)
		return
	}

	session := s.currentSession(r)
	var userID *uuid.UUID
	if uid, ok := session.UserUUID(); ok {
		userID = &uid
	}

	cmd := contact.SubmitCommand{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Subject: strings.TrimSpace(r.PostFormValue("subject")),
		Body:    strings.TrimSpace(r.PostFormValue("message")),
		UserID:  userID,
	}

	if err := s.contacts.Submit(r.Context(), cmd); err != nil {
		s.render(w, r, "contact.html", pageData{
			Title:      "Contact",
			FormErrors: []string{errors.UserMessage(err)},
			Form: map[string]string{
				"name":    cmd.Name,
				"email":   cmd.Email,
				"subject": cmd.Subject,
				"message": cmd.Body,
			},
		})
		return
	}

	s.redirectWithFlash(w, r, "/contact", "Thanks for reaching out. We'll get back to you soon.")
}

// criteriaFromQuery builds search criteria from the query string.
// Malformed ids and numbers are treated as absent filters.
func (s *WebServer) criteriaFromQuery(r *http.Request) outbound.SearchCriteria {
	q := r.URL.Query()
	criteria := outbound.SearchCriteria{
		Sort: outbound.ParseSortKey(q.Get("sort")),
		Page: 1,
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 {
		criteria.Page = page
	}
	if query := strings.TrimSpace(q.Get("query")); query != "" {
		criteria.Query = &query
	}
	criteria.CategoryID = parseUUIDParam(q.Get("category"))
	criteria.DifficultyID = parseUUIDParam(q.Get("difficulty"))
	criteria.PreferenceID = parseUUIDParam(q.Get("preference"))
	criteria.TagID = parseUUIDParam(q.Get("tag"))
	if maxTime, err := strconv.Atoi(q.Get("max_time")); err == nil && maxTime > 0 {
		criteria.MaxTotalTime = &maxTime
	}

	return criteria
}

func parseUUIDParam(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// selectedFilters echoes raw filter params back to the template so the
// dropdowns keep their state.
func selectedFilters(r *http.Request) map[string]string {
	q := r.URL.Query()
	return map[string]string{
		"category":   q.Get("category"),
		"difficulty": q.Get("difficulty"),
		"preference": q.Get("preference"),
		"tag":        q.Get("tag"),
		"max_time":   q.Get("max_time"),
	}
}
