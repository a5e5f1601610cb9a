package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestRoomsAcceptsBareList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rooms" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id":1,"title":"Coat"},{"id":2,"title":"Shoes"}]`))
	})

	rooms, err := c.Rooms(context.Background())
	if err != nil {
		t.Fatalf("Rooms: %v", err)
	}
	if len(rooms) != 2 || rooms[0].Title != "Coat" {
		t.Errorf("rooms = %+v", rooms)
	}
}

func TestRoomsAcceptsWrappedList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"rooms":[{"id":1,"title":"Coat"}]}`))
	})

	rooms, err := c.Rooms(context.Background())
	if err != nil {
		t.Fatalf("Rooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Errorf("rooms = %+v", rooms)
	}
}

func TestRoomsAcceptsEnvelopedList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"resultType":"SUCCESS","data":[{"id":3,"title":"Desk"}]}`))
	})

	rooms, err := c.Rooms(context.Background())
	if err != nil {
		t.Fatalf("Rooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != 3 {
		t.Errorf("rooms = %+v", rooms)
	}
}

func TestCreateRoom(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rooms" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["kind"] != "CLOTHING" || body["itemId"] != float64(12) {
			t.Errorf("request body = %v", body)
		}
		_, _ = w.Write([]byte(`{"resultType":"SUCCESS","data":{"id":7,"currentStep":1}}`))
	})

	created, err := c.CreateRoom(context.Background(), "CLOTHING", 12)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if created.ID != 7 || created.CurrentStep != 1 {
		t.Errorf("created = %+v", created)
	}
}

func TestQuestionInProgress(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rooms/7/question" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"IN_PROGRESS","step":2,"question":"Can you afford it?","options":[{"id":1,"label":"Easily"},{"id":2,"label":"Barely"}]}`))
	})

	q, err := c.Question(context.Background(), 7)
	if err != nil {
		t.Fatalf("Question: %v", err)
	}
	if q.Done {
		t.Fatal("Done = true for an in-progress question")
	}
	if q.Step != 2 || q.Text != "Can you afford it?" || len(q.Options) != 2 {
		t.Errorf("question = %+v", q)
	}
}

func TestQuestionDone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"DONE","message":"Let me think it over..."}`))
	})

	q, err := c.Question(context.Background(), 7)
	if err != nil {
		t.Fatalf("Question: %v", err)
	}
	if !q.Done || q.FinalMessage != "Let me think it over..." {
		t.Errorf("question = %+v", q)
	}
}

func TestSubmitAnswerCarriesIdempotencyToken(t *testing.T) {
	var gotToken string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rooms/7/select" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotToken = r.Header.Get("X-Request-Token")
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["step"] != float64(1) || body["selectedOptionId"] != float64(3) {
			t.Errorf("request body = %v", body)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.SubmitAnswer(context.Background(), 7, 1, 3, "tok-123"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if gotToken != "tok-123" {
		t.Errorf("X-Request-Token = %q, want tok-123", gotToken)
	}
}

func TestResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"decision":"HOLD_OFF","message":"Wait for the sale."}`))
	})

	res, err := c.Result(context.Background(), 7)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Decision != "HOLD_OFF" {
		t.Errorf("result = %+v", res)
	}
}

func TestHTTPFailureBecomesTypedError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"resultType":"FAIL","error":{"reason":"room 9 does not exist"}}`))
	})

	err := c.DeleteRoom(context.Background(), 9)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Reason != "room 9 does not exist" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestTransportFailureBecomesTypedError(t *testing.T) {
	// Point the client at a server that is already gone.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, 500*time.Millisecond)
	_, err := c.Rooms(context.Background())

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Reason == "" {
		t.Error("transport failure produced an empty reason")
	}
}
