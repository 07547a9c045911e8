package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/api/shared"
	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/platform/logger"
	"github.com/cadell/conjugo-api/internal/service/practice"
)

// ReviewHandler serves the review heat map and family mastery read models.
type ReviewHandler struct {
	practiceService practice.Service
	logger          *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(practiceService practice.Service, logger *slog.Logger) *ReviewHandler {
	if practiceService == nil {
		panic("practice service cannot be nil for ReviewHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		practiceService: practiceService,
		logger:          logger.With(slog.String("component", "review_handler")),
	}
}

// Heatmap handles GET /review/heatmap requests.
// Query parameters mirror the review session filter: mood, tense, person,
// urgency, urgency_level, limit_preset, max_items.
func (h *ReviewHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	filter := filterFromQuery(r)

	cells, err := h.practiceService.Heatmap(r.Context(), userID, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to build review heat map", err)
		return
	}

	log.Debug("heat map built",
		slog.String("user_id", userID.String()),
		slog.Int("cells", len(cells)))
	shared.RespondWithJSON(w, r, http.StatusOK, cells)
}

// FamilyStatistics handles GET /families/statistics requests.
// The person query parameter defaults to first-person singular.
func (h *ReviewHandler) FamilyStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	person := r.URL.Query().Get("person")
	if person == "" {
		person = domain.Person1s
	}

	stats := h.practiceService.FamilyStatistics(r.Context(), userID, person)
	shared.RespondWithJSON(w, r, http.StatusOK, familiesToResponse(stats))
}

// FamilyRecommendations handles GET /families/recommendations requests.
// Requires mood and tense query parameters identifying the target cell.
func (h *ReviewHandler) FamilyRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	query := r.URL.Query()
	mood := query.Get("mood")
	tense := query.Get("tense")
	if mood == "" || tense == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Mood and tense are required")
		return
	}
	person := query.Get("person")
	if person == "" {
		person = domain.Person1s
	}
	limit, _ := strconv.Atoi(query.Get("limit"))

	recs := h.practiceService.FamilyRecommendations(r.Context(), userID, mood, tense, person, limit)
	shared.RespondWithJSON(w, r, http.StatusOK, familiesToResponse(recs))
}

// filterFromQuery parses review filter query parameters. Unparsable numeric
// values are treated as absent.
func filterFromQuery(r *http.Request) domain.ReviewSessionFilter {
	query := r.URL.Query()
	urgencyLevel, _ := strconv.Atoi(query.Get("urgency_level"))
	maxItems, _ := strconv.Atoi(query.Get("max_items"))

	return domain.ReviewSessionFilter{
		Mood:         query.Get("mood"),
		Tense:        query.Get("tense"),
		Person:       query.Get("person"),
		Urgency:      query.Get("urgency"),
		UrgencyLevel: urgencyLevel,
		LimitPreset:  query.Get("limit_preset"),
		MaxItems:     maxItems,
	}
}
