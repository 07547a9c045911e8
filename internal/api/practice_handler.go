package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/api/shared"
	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/platform/logger"
	"github.com/cadell/conjugo-api/internal/redact"
	"github.com/cadell/conjugo-api/internal/service/practice"
)

// PracticeHandler handles practice-turn HTTP requests.
type PracticeHandler struct {
	practiceService practice.Service
	logger          *slog.Logger
}

// NewPracticeHandler creates a new PracticeHandler.
func NewPracticeHandler(practiceService practice.Service, logger *slog.Logger) *PracticeHandler {
	if practiceService == nil {
		panic("practice service cannot be nil for PracticeHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for PracticeHandler")
	}

	return &PracticeHandler{
		practiceService: practiceService,
		logger:          logger.With(slog.String("component", "practice_handler")),
	}
}

// NextDrill handles POST /practice/next requests.
// The user ID is optional: anonymous sessions get drills without SRS input.
func (h *PracticeHandler) NextDrill(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req NextDrillRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	// Anonymous sessions carry no user ID; the selector skips its SRS stage.
	userID, _ := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)

	sessionType := domain.ReviewSessionType(req.SessionType)
	if sessionType == "" {
		sessionType = domain.ReviewSessionMixed
	}

	result, err := h.practiceService.NextDrill(r.Context(), practice.DrillRequest{
		UserID:      userID,
		Region:      req.Settings.Region,
		Settings:    req.Settings,
		SessionType: sessionType,
		Filter:      req.Filter,
		History:     req.History,
		Exclude:     req.Exclude,
	})
	if errors.Is(err, practice.ErrNoEligibleForms) {
		log.Debug("no eligible forms for settings")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to select next drill"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("drill selected",
		slog.String("method", result.Method),
		slog.String("lemma", result.Form.Lemma))
	shared.RespondWithJSON(w, r, http.StatusOK, drillToResponse(result))
}

// SubmitAnswer handles POST /practice/answer requests.
// It processes the outcome of a drill and updates the cell's spaced
// repetition schedule. Requires an identified user.
func (h *PracticeHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	result, err := h.practiceService.SubmitAnswer(r.Context(), userID, practice.AnswerRequest{
		Lemma:   req.Lemma,
		Mood:    req.Mood,
		Tense:   req.Tense,
		Person:  req.Person,
		Outcome: domain.ReviewOutcome(req.Outcome),
	})
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit answer"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("answer submitted",
		slog.String("user_id", userID.String()),
		slog.String("outcome", req.Outcome),
		slog.Bool("boost_applied", result.BoostApplied))
	shared.RespondWithJSON(w, r, http.StatusOK, SubmitAnswerResponse{
		Cell:            cellToResponse(result.Cell),
		BoostApplied:    result.BoostApplied,
		FamilyMastery:   result.FamilyMastery,
		BoostMultiplier: result.BoostMultiplier,
	})
}
