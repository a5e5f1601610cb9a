package advice

import "testing"

func inProgress(step int) SurveyQuestion {
	return SurveyQuestion{
		Step: step,
		Text: "Do you need it?",
		Options: []Option{
			{ID: 1, Label: "Yes"},
			{ID: 2, Label: "No"},
			{ID: 3, Label: "Maybe"},
		},
	}
}

func openAndFetch(t *testing.T, e *Engine, roomID int64, step int) {
	t.Helper()
	e.Open(roomID)
	if !e.BeginQuestionFetch(roomID) {
		t.Fatalf("BeginQuestionFetch(%d) refused", roomID)
	}
	if got := e.ApplyQuestion(roomID, inProgress(step)); got != AdvanceQuestion {
		t.Fatalf("ApplyQuestion step %d = %v, want AdvanceQuestion", step, got)
	}
}

func TestHappyPathToResolved(t *testing.T) {
	e := NewEngine()
	openAndFetch(t, e, 7, 1)

	req := e.Select(7, 1, 3)
	if req == nil {
		t.Fatal("Select returned nil for a valid pick")
	}
	if req.Step != 1 || req.OptionID != 3 || req.Token == "" {
		t.Fatalf("SubmitRequest = %+v", req)
	}
	if e.StateOf(7) != StepSubmitting {
		t.Fatalf("state = %v, want StepSubmitting", e.StateOf(7))
	}

	if !e.SubmitOK(7, 1) {
		t.Fatal("SubmitOK refused")
	}
	if got := e.ApplyQuestion(7, inProgress(2)); got != AdvanceQuestion {
		t.Fatalf("ApplyQuestion step 2 = %v, want AdvanceQuestion", got)
	}

	// Step 1's choice stays marked while step 2 is current.
	if id, ok := e.Selected(7, 1); !ok || id != 3 {
		t.Errorf("Selected(7,1) = %d, %v; want 3, true", id, ok)
	}

	req = e.Select(7, 2, 1)
	if req == nil {
		t.Fatal("Select step 2 returned nil")
	}
	e.SubmitOK(7, 2)

	if got := e.ApplyQuestion(7, SurveyQuestion{Done: true, FinalMessage: "All set"}); got != AdvanceDone {
		t.Fatalf("ApplyQuestion done = %v, want AdvanceDone", got)
	}
	if e.FinalMessage(7) != "All set" {
		t.Errorf("FinalMessage = %q", e.FinalMessage(7))
	}

	if !e.BeginResultFetch(7) {
		t.Fatal("BeginResultFetch refused after done")
	}
	if !e.ApplyResult(7, ChatResult{Decision: "BUY", Message: "Go for it"}) {
		t.Fatal("ApplyResult refused")
	}
	if e.StateOf(7) != StepResolved {
		t.Errorf("state = %v, want StepResolved", e.StateOf(7))
	}
	if res, ok := e.Result(7); !ok || res.Decision != "BUY" {
		t.Errorf("Result = %+v, %v", res, ok)
	}
}

func TestDuplicateSelectionDoesNotResubmit(t *testing.T) {
	e := NewEngine()
	openAndFetch(t, e, 7, 1)

	first := e.Select(7, 1, 3)
	if first == nil {
		t.Fatal("first Select returned nil")
	}
	e.SubmitOK(7, 1)

	// Same step comes back from the server; selecting the same option
	// again must not produce a second submission.
	if got := e.ApplyQuestion(7, inProgress(1)); got != AdvanceRepeat {
		t.Fatalf("re-fetch of shown step = %v, want AdvanceRepeat", got)
	}
	if again := e.Select(7, 1, 3); again != nil {
		t.Errorf("duplicate (step, option) produced a submit: %+v", again)
	}
}

func TestRefetchSameStepIsIdempotent(t *testing.T) {
	e := NewEngine()
	openAndFetch(t, e, 7, 1)

	// A stray second response for the pending fetch state is dropped.
	if got := e.ApplyQuestion(7, inProgress(1)); got != AdvanceIgnored {
		t.Errorf("ApplyQuestion outside AwaitingQuestion = %v, want AdvanceIgnored", got)
	}
}

func TestStepsAreMonotonic(t *testing.T) {
	e := NewEngine()
	openAndFetch(t, e, 7, 2)

	e.Select(7, 2, 1)
	e.SubmitOK(7, 2)
	if got := e.ApplyQuestion(7, inProgress(1)); got != AdvanceIgnored {
		t.Errorf("older step accepted: %v", got)
	}
}

func TestNoPipelining(t *testing.T) {
	e := NewEngine()
	openAndFetch(t, e, 7, 1)

	// A second fetch while a pick is outstanding is refused, as is a
	// select for a step that is not current.
	if e.BeginQuestionFetch(7) {
		t.Error("BeginQuestionFetch allowed while AwaitingPick")
	}
	if req := e.Select(7, 2, 1); req != nil {
		t.Errorf("Select for future step produced a submit: %+v", req)
	}

	e.Select(7, 1, 1)
	if req := e.Select(7, 1, 2); req != nil {
		t.Errorf("Select while Submitting produced a submit: %+v", req)
	}
}

func TestSelectRejectsForeignOption(t *testing.T) {
	e := NewEngine()
	openAndFetch(t, e, 7, 1)
	if req := e.Select(7, 1, 42); req != nil {
		t.Errorf("option not in the shown question was accepted: %+v", req)
	}
}

func TestSubmitFailureKeepsSelectionAndRetriesWithSameToken(t *testing.T) {
	e := NewEngine()
	openAndFetch(t, e, 7, 1)

	req := e.Select(7, 1, 2)
	if !e.FailSubmit(7, "network unreachable") {
		t.Fatal("FailSubmit refused")
	}
	if e.StateOf(7) != StepFailed {
		t.Fatalf("state = %v, want StepFailed", e.StateOf(7))
	}
	if e.Failure(7) != "network unreachable" {
		t.Errorf("Failure = %q", e.Failure(7))
	}
	// Selection is not rolled back on failure.
	if id, ok := e.Selected(7, 1); !ok || id != 2 {
		t.Errorf("Selected after failure = %d, %v; want 2, true", id, ok)
	}

	kind, retryReq := e.Retry(7)
	if kind != RetrySubmit || retryReq == nil {
		t.Fatalf("Retry = %v, %+v", kind, retryReq)
	}
	if retryReq.Token != req.Token {
		t.Errorf("retry token %q differs from original %q", retryReq.Token, req.Token)
	}
	if retryReq.Step != 1 || retryReq.OptionID != 2 {
		t.Errorf("retry request = %+v", retryReq)
	}
}

func TestQuestionFailureRetry(t *testing.T) {
	e := NewEngine()
	e.Open(7)
	e.BeginQuestionFetch(7)

	if !e.FailQuestion(7, "") {
		t.Fatal("FailQuestion refused")
	}
	if e.Failure(7) == "" {
		t.Error("empty failure message was not defaulted")
	}

	kind, req := e.Retry(7)
	if kind != RetryQuestion || req != nil {
		t.Fatalf("Retry = %v, %+v; want RetryQuestion, nil", kind, req)
	}
	if e.StateOf(7) != StepAwaitingQuestion {
		t.Errorf("state = %v, want StepAwaitingQuestion", e.StateOf(7))
	}
}

func TestResultFailureRetry(t *testing.T) {
	e := NewEngine()
	e.Open(7)
	e.BeginQuestionFetch(7)
	e.ApplyQuestion(7, SurveyQuestion{Done: true})
	e.BeginResultFetch(7)

	if !e.FailResult(7, "timeout") {
		t.Fatal("FailResult refused")
	}
	kind, _ := e.Retry(7)
	if kind != RetryResult {
		t.Fatalf("Retry = %v, want RetryResult", kind)
	}
	if !e.ApplyResult(7, ChatResult{Decision: "SKIP"}) {
		t.Error("ApplyResult refused after retry")
	}
}

func TestDoneIsTerminal(t *testing.T) {
	e := NewEngine()
	e.Open(7)
	e.BeginQuestionFetch(7)
	e.ApplyQuestion(7, SurveyQuestion{Done: true})

	if got := e.ApplyQuestion(7, inProgress(5)); got != AdvanceIgnored {
		t.Errorf("room returned to in-progress after done: %v", got)
	}
}

func TestRoomsAreIndependent(t *testing.T) {
	e := NewEngine()
	openAndFetch(t, e, 7, 1)
	openAndFetch(t, e, 8, 1)

	e.Select(7, 1, 1)
	e.Forget(8)

	// Forgetting room 8 must not disturb room 7 mid-submit.
	if e.StateOf(7) != StepSubmitting {
		t.Errorf("room 7 state = %v after Forget(8)", e.StateOf(7))
	}
	if e.StateOf(8) != StepIdle {
		t.Errorf("room 8 state = %v, want StepIdle after Forget", e.StateOf(8))
	}
}

func TestApplyForUnknownRoomIsIgnored(t *testing.T) {
	e := NewEngine()
	if got := e.ApplyQuestion(99, inProgress(1)); got != AdvanceIgnored {
		t.Errorf("ApplyQuestion for unknown room = %v", got)
	}
	if e.ApplyResult(99, ChatResult{}) {
		t.Error("ApplyResult for unknown room accepted")
	}
}
