package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// Sentinel errors mirroring the server's error taxonomy.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// LeaseDead reports whether the error means the session lease no longer
// holds: the server either rejected it as expired or forgot it entirely.
func LeaseDead(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound)
}

// Lease is a granted session lease.
type Lease struct {
	SessionID string    `json:"sessionId"`
	EndedAt   time.Time `json:"endedAt"`
}

// Puzzle is a served task: the visible beginning of a sequence and the
// number of notes the answer must supply.
type Puzzle struct {
	SequenceID        string `json:"sequenceId"`
	LevelID           int    `json:"levelId"`
	SequenceBeginning string `json:"sequenceBeginning"`
	ExpectedSlots     int    `json:"expectedSlots"`
	AttemptsUsed      int    `json:"attemptsUsed"`
}

// SubmitResult is the authoritative grading outcome.
type SubmitResult struct {
	Score          int  `json:"score"`
	AttemptsUsed   int  `json:"attemptsUsed"`
	TaskCompleted  bool `json:"taskCompleted"`
	LevelCompleted bool `json:"levelCompleted"`
	NextLevel      int  `json:"nextLevel"`
	TotalScore     int  `json:"totalScore"`
}

// Client talks to the game API for one player. Lease cookies set by the
// server are kept in an in-process jar the way a browser would.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	profileID string
	http      *http.Client
	logger    *slog.Logger
}

// New creates a Client bound to one profile identity.
func New(baseURL, apiKey, profileID string, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   u,
		apiKey:    apiKey,
		profileID: profileID,
		http:      &http.Client{Jar: jar, Timeout: 10 * time.Second},
		logger:    logger,
	}, nil
}

// ProfileID returns the identity the client acts as.
func (c *Client) ProfileID() string {
	return c.profileID
}

// SessionCookie returns the session id mirrored in the lease cookie, if
// the jar still holds an unexpired one.
func (c *Client) SessionCookie() (string, bool) {
	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == "game_session_"+c.profileID && cookie.Value != "" {
			return cookie.Value, true
		}
	}
	return "", false
}

// StartSession opens a fresh lease, force-closing any prior one.
func (c *Client) StartSession(ctx context.Context) (*Lease, error) {
	var lease Lease
	err := c.do(ctx, http.MethodPost, "/profiles/"+c.profileID+"/sessions", nil, &lease)
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

// RefreshSession extends the lease deadline.
func (c *Client) RefreshSession(ctx context.Context, sessionID string) (*Lease, error) {
	var lease Lease
	err := c.do(ctx, http.MethodPost, "/sessions/"+sessionID+"/refresh", nil, &lease)
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

// EndSession closes the lease now.
func (c *Client) EndSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+sessionID, nil, nil)
}

// NextTask resumes the open task or draws a new one.
func (c *Client) NextTask(ctx context.Context) (*Puzzle, error) {
	var puzzle Puzzle
	err := c.do(ctx, http.MethodPost, "/profiles/"+c.profileID+"/tasks/next", nil, &puzzle)
	if err != nil {
		return nil, err
	}
	return &puzzle, nil
}

// CurrentTask returns the open task, or ErrNotFound when there is none.
func (c *Client) CurrentTask(ctx context.Context) (*Puzzle, error) {
	var puzzle Puzzle
	err := c.do(ctx, http.MethodGet, "/profiles/"+c.profileID+"/tasks/current", nil, &puzzle)
	if err != nil {
		return nil, err
	}
	return &puzzle, nil
}

// SubmitAnswer grades a dash-joined answer against the open task.
func (c *Client) SubmitAnswer(ctx context.Context, sequenceID, answer, sessionID string) (*SubmitResult, error) {
	body := map[string]string{"answer": answer, "sessionId": sessionID}
	var result SubmitResult
	err := c.do(ctx, http.MethodPost, "/profiles/"+c.profileID+"/tasks/"+sequenceID+"/submit", body, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("X-Profile-ID", c.profileID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.apiError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Message == "" {
		body.Message = resp.Status
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = ErrValidation
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, body.Message)
	}
	return fmt.Errorf("%w: %s", sentinel, body.Message)
}
