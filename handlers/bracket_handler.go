package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/bracket-engine/middleware"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{
		bracketService: bs,
	}
}

type resultInput struct {
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
}

// CreateHandler обрабатывает POST /brackets
func (h *BracketHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateBracketInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	problems := make(map[string]string)
	if input.Name == "" {
		problems["name"] = "must be provided"
	}
	if input.Format == "" {
		problems["format"] = "must be provided"
	}
	if len(input.Participants) < 2 {
		problems["participants"] = "at least two participants are required"
	}
	if len(problems) > 0 {
		failedValidationResponse(w, r, problems)
		return
	}

	bracket, err := h.bracketService.CreateBracket(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/brackets/"+bracket.ID)
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /brackets/{bracketID}
func (h *BracketHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	bracket, err := h.bracketService.GetBracket(r.Context(), chi.URLParam(r, "bracketID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReadyMatchesHandler обрабатывает GET /brackets/{bracketID}/matches/ready
func (h *BracketHandler) ReadyMatchesHandler(w http.ResponseWriter, r *http.Request) {
	matches, err := h.bracketService.ListReadyMatches(r.Context(), chi.URLParam(r, "bracketID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if matches == nil {
		matches = []models.Match{}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StandingsHandler обрабатывает GET /brackets/{bracketID}/standings
func (h *BracketHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	standings, err := h.bracketService.GetStandings(r.Context(), chi.URLParam(r, "bracketID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// NextOpponentHandler обрабатывает GET /brackets/{bracketID}/participants/{participantID}/next-opponent
func (h *BracketHandler) NextOpponentHandler(w http.ResponseWriter, r *http.Request) {
	next, err := h.bracketService.NextOpponent(r.Context(), chi.URLParam(r, "bracketID"), chi.URLParam(r, "participantID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"match": next.Match}
	if next.OpponentID != "" {
		response["opponent_id"] = next.OpponentID
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MatchesOfHandler обрабатывает GET /brackets/{bracketID}/participants/{participantID}/matches
func (h *BracketHandler) MatchesOfHandler(w http.ResponseWriter, r *http.Request) {
	matches, err := h.bracketService.MatchesOf(r.Context(), chi.URLParam(r, "bracketID"), chi.URLParam(r, "participantID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if matches == nil {
		matches = []models.Match{}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReportResultHandler обрабатывает POST /brackets/{bracketID}/matches/{matchID}/result
func (h *BracketHandler) ReportResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getMatchIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input resultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Score1 == nil || input.Score2 == nil {
		badRequestResponse(w, r, errors.New("score1 and score2 are required"))
		return
	}

	outcome, err := h.bracketService.ReportResult(r.Context(), chi.URLParam(r, "bracketID"), matchID, *input.Score1, *input.Score2)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOutcome(w, r, outcome)
}

// ValidateMatchHandler обрабатывает POST /brackets/{bracketID}/matches/{matchID}/validate
func (h *BracketHandler) ValidateMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getMatchIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.bracketService.ValidateMatch(r.Context(), chi.URLParam(r, "bracketID"), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOutcome(w, r, outcome)
}

// DisqualifyHandler обрабатывает POST /brackets/{bracketID}/participants/{participantID}/disqualify
func (h *BracketHandler) DisqualifyHandler(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.bracketService.Disqualify(r.Context(), chi.URLParam(r, "bracketID"), chi.URLParam(r, "participantID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOutcome(w, r, outcome)
}

// ParticipantReportHandler обрабатывает POST /brackets/{bracketID}/participants/{participantID}/report
func (h *BracketHandler) ParticipantReportHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to report a result")
		return
	}

	var input services.ReportInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.bracketService.ReportFromParticipant(r.Context(), principal,
		chi.URLParam(r, "bracketID"), chi.URLParam(r, "participantID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOutcome(w, r, outcome)
}

// CloseReportingHandler обрабатывает POST /brackets/{bracketID}/close
func (h *BracketHandler) CloseReportingHandler(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.bracketService.CloseReporting(r.Context(), chi.URLParam(r, "bracketID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOutcome(w, r, outcome)
}

// OpenReportingHandler обрабатывает POST /brackets/{bracketID}/open
func (h *BracketHandler) OpenReportingHandler(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.bracketService.OpenReporting(r.Context(), chi.URLParam(r, "bracketID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOutcome(w, r, outcome)
}

func (h *BracketHandler) writeOutcome(w http.ResponseWriter, r *http.Request, outcome models.Outcome) {
	if outcome.NewlyReady == nil {
		outcome.NewlyReady = []models.Match{}
	}
	if outcome.Eliminated == nil {
		outcome.Eliminated = []string{}
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"outcome": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
