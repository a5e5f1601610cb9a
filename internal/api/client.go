package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mull-dev/mull/internal/advice"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// CreatedRoom is the service's answer to a room-creation request.
type CreatedRoom struct {
	ID          int64     `json:"id"`
	CurrentStep int       `json:"currentStep"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Client talks to the remote purchase-advice service. Every method takes a
// context and returns either a decoded payload or an *Error; callers never
// see a raw transport or parse error.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the service at baseURL with the given
// per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateRoom starts a new advice chat room for a picked item.
func (c *Client) CreateRoom(ctx context.Context, kind string, itemID int64) (CreatedRoom, error) {
	body := map[string]any{"kind": kind, "itemId": itemID}
	var created CreatedRoom
	err := c.do(ctx, http.MethodPost, "/rooms", body, nil, &created)
	return created, err
}

// Rooms lists the user's chat rooms. The response may be a bare list or an
// object wrapping one.
func (c *Client) Rooms(ctx context.Context) ([]advice.ChatRoom, error) {
	var list roomList
	if err := c.do(ctx, http.MethodGet, "/rooms", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Room fetches the immutable detail snapshot for one room.
func (c *Client) Room(ctx context.Context, id int64) (advice.ChatRoomDetail, error) {
	var detail advice.ChatRoomDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%d", id), nil, nil, &detail)
	return detail, err
}

// DeleteRoom removes a room on the service.
func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/rooms/%d", id), nil, nil, nil)
}

// Question polls the room's survey cursor.
func (c *Client) Question(ctx context.Context, id int64) (advice.SurveyQuestion, error) {
	var dto questionDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%d/question", id), nil, nil, &dto); err != nil {
		return advice.SurveyQuestion{}, err
	}
	return dto.toQuestion(), nil
}

// SubmitAnswer submits the selected option for a step. token is the
// per-step idempotency token; re-submitting a step under retry carries the
// same token so the service can dedupe.
func (c *Client) SubmitAnswer(ctx context.Context, id int64, step int, optionID int64, token string) error {
	body := map[string]any{"step": step, "selectedOptionId": optionID}
	headers := map[string]string{"X-Request-Token": token}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%d/select", id), body, headers, nil)
}

// Result fetches the final verdict for a completed room.
func (c *Client) Result(ctx context.Context, id int64) (advice.ChatResult, error) {
	var res advice.ChatResult
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%d/result", id), nil, nil, &res)
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Reason: "could not encode the request", cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Reason: "could not build the request", cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Reason: "could not reach the advice service", cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Reason: "could not read the response", cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Reason: failureReason(data, resp.StatusCode), Status: resp.StatusCode}
	}
	if out == nil && len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return decodeBody(data, out)
}

// roomList accepts both a bare room array and an object wrapping one.
type roomList []advice.ChatRoom

func (r *roomList) UnmarshalJSON(data []byte) error {
	var bare []advice.ChatRoom
	if err := json.Unmarshal(data, &bare); err == nil {
		*r = bare
		return nil
	}
	var wrapped struct {
		Rooms []advice.ChatRoom `json:"rooms"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*r = wrapped.Rooms
	return nil
}

// questionDTO is the wire shape of the survey cursor.
type questionDTO struct {
	Status   string          `json:"status"`
	Step     int             `json:"step"`
	Question string          `json:"question"`
	Options  []advice.Option `json:"options"`
	Message  string          `json:"message"`
}

func (d questionDTO) toQuestion() advice.SurveyQuestion {
	done := strings.EqualFold(d.Status, "DONE")
	if d.Status == "" && len(d.Options) == 0 {
		// Status-less done marker: nothing left to ask.
		done = true
	}
	if done {
		return advice.SurveyQuestion{Done: true, FinalMessage: d.Message}
	}
	return advice.SurveyQuestion{
		Step:    d.Step,
		Text:    d.Question,
		Options: d.Options,
	}
}
