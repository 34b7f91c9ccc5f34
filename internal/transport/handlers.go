package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/answer"
	"github.com/melodiq/melodiq/internal/domain/gamesession"
	"github.com/melodiq/melodiq/internal/domain/task"
)

// CookiePrefix names the per-profile session cookie. The cookie expires
// in lockstep with the server lease, so its presence implies an active
// session.
const CookiePrefix = "game_session_"

// Handler carries the game services behind the REST surface.
type Handler struct {
	sessions *gamesession.Service
	tasks    *task.Service
	answers  *answer.Service
	logger   *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(sessions *gamesession.Service, tasks *task.Service, answers *answer.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sessions: sessions,
		tasks:    tasks,
		answers:  answers,
		logger:   logger,
	}
}

type leaseResponse struct {
	SessionID string    `json:"sessionId"`
	EndedAt   time.Time `json:"endedAt"`
}

type puzzleResponse struct {
	SequenceID        string `json:"sequenceId"`
	LevelID           int    `json:"levelId"`
	SequenceBeginning string `json:"sequenceBeginning"`
	ExpectedSlots     int    `json:"expectedSlots"`
	AttemptsUsed      int    `json:"attemptsUsed"`
}

type submitRequest struct {
	Answer    string `json:"answer"`
	SessionID string `json:"sessionId"`
}

type submitResponse struct {
	Score          int  `json:"score"`
	AttemptsUsed   int  `json:"attemptsUsed"`
	TaskCompleted  bool `json:"taskCompleted"`
	LevelCompleted bool `json:"levelCompleted"`
	NextLevel      int  `json:"nextLevel"`
	TotalScore     int  `json:"totalScore"`
}

// StartSession handles POST /profiles/{id}/sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ownedProfile(w, r)
	if !ok {
		return
	}

	lease, err := h.sessions.Start(r.Context(), profileID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	setLeaseCookie(w, profileID, lease)
	writeJSON(w, http.StatusCreated, leaseResponse{SessionID: lease.SessionID, EndedAt: lease.EndedAt})
}

// RefreshSession handles POST /sessions/{id}/refresh
func (h *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing profile identity")
		return
	}

	lease, err := h.sessions.Refresh(r.Context(), chi.URLParam(r, "id"), ownerID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	setLeaseCookie(w, ownerID, lease)
	writeJSON(w, http.StatusOK, leaseResponse{SessionID: lease.SessionID, EndedAt: lease.EndedAt})
}

// EndSession handles DELETE /sessions/{id}
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing profile identity")
		return
	}

	if err := h.sessions.End(r.Context(), chi.URLParam(r, "id"), ownerID); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	clearLeaseCookie(w, ownerID)
	w.WriteHeader(http.StatusNoContent)
}

// NextTask handles POST /profiles/{id}/tasks/next
func (h *Handler) NextTask(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ownedProfile(w, r)
	if !ok {
		return
	}

	puzzle, err := h.tasks.ResumeOrGenerate(r.Context(), profileID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, puzzlePayload(puzzle))
}

// CurrentTask handles GET /profiles/{id}/tasks/current
func (h *Handler) CurrentTask(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ownedProfile(w, r)
	if !ok {
		return
	}

	puzzle, err := h.tasks.Current(r.Context(), profileID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, puzzlePayload(puzzle))
}

// SubmitAnswer handles POST /profiles/{id}/tasks/{sequenceId}/submit
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.ownedProfile(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	result, err := h.answers.Submit(r.Context(), profileID, chi.URLParam(r, "sequenceId"), req.Answer, req.SessionID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Score:          result.Score,
		AttemptsUsed:   result.AttemptsUsed,
		TaskCompleted:  result.TaskCompleted,
		LevelCompleted: result.LevelCompleted,
		NextLevel:      result.NextLevel,
		TotalScore:     result.TotalScore,
	})
}

// ownedProfile resolves the {id} path parameter and enforces that the
// caller's identity owns it.
func (h *Handler) ownedProfile(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing profile identity")
		return "", false
	}
	profileID := chi.URLParam(r, "id")
	if profileID != identity {
		writeError(w, http.StatusForbidden, codeForbidden, "profile does not belong to caller")
		return "", false
	}
	return profileID, true
}

func puzzlePayload(puzzle *task.Puzzle) puzzleResponse {
	return puzzleResponse{
		SequenceID:        puzzle.SequenceID,
		LevelID:           puzzle.Level,
		SequenceBeginning: catalog.JoinNotes(puzzle.Beginning),
		ExpectedSlots:     puzzle.ExpectedSlots,
		AttemptsUsed:      puzzle.AttemptsUsed,
	}
}

func setLeaseCookie(w http.ResponseWriter, profileID string, lease *gamesession.Lease) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookiePrefix + profileID,
		Value:    lease.SessionID,
		Path:     "/",
		Expires:  lease.EndedAt,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearLeaseCookie(w http.ResponseWriter, profileID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookiePrefix + profileID,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		SameSite: http.SameSiteStrictMode,
	})
}
