package advice

import "github.com/google/uuid"

// StepState is the client-observed phase of one room's survey progression.
type StepState int

const (
	StepIdle StepState = iota
	StepAwaitingQuestion
	StepAwaitingPick
	StepSubmitting
	StepCompleting
	StepAwaitingResult
	StepResolved
	StepFailed
)

// RetryKind names the operation a Failed room should retry.
type RetryKind int

const (
	RetryNone RetryKind = iota
	RetryQuestion
	RetrySubmit
	RetryResult
)

// Advance classifies what applying a fetched question changed.
type Advance int

const (
	// AdvanceIgnored means the response arrived in a state that cannot
	// accept it (stale completion) and was dropped.
	AdvanceIgnored Advance = iota
	// AdvanceRepeat means the same step came back again; nothing new to
	// show.
	AdvanceRepeat
	// AdvanceQuestion means a new question became current.
	AdvanceQuestion
	// AdvanceDone means the survey completed; the result fetch should be
	// scheduled after the typing delay.
	AdvanceDone
)

// SubmitRequest carries everything needed for one answer submission. Token
// is a per-step idempotency token, reused when the same step is retried.
type SubmitRequest struct {
	RoomID   int64
	Step     int
	OptionID int64
	Token    string
}

type progress struct {
	state        StepState
	lastStep     int
	question     *SurveyQuestion
	selections   map[int]int64
	tokens       map[int]string
	finalMessage string
	result       *ChatResult
	failure      string
	retry        RetryKind
}

// Engine drives survey progression for every open room. It is the sole
// owner of per-room step state; rooms never share state, so a delete racing
// a restore only touches its own entry.
//
// Within one room the engine enforces strict submit -> re-fetch sequencing:
// a Begin or Select call while another operation is pending returns a
// refusal instead of pipelining.
type Engine struct {
	rooms map[int64]*progress
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{rooms: make(map[int64]*progress)}
}

// Open registers a room, if unknown, in the Idle state.
func (e *Engine) Open(roomID int64) {
	if _, ok := e.rooms[roomID]; !ok {
		e.rooms[roomID] = &progress{
			selections: make(map[int]int64),
			tokens:     make(map[int]string),
		}
	}
}

// Forget drops all step state for a room. Called when the room is deleted.
func (e *Engine) Forget(roomID int64) {
	delete(e.rooms, roomID)
}

// BeginQuestionFetch marks the room as waiting for a question. Returns
// false when a fetch is not allowed from the current state, which is how
// pipelined or duplicate fetches are refused.
func (e *Engine) BeginQuestionFetch(roomID int64) bool {
	p, ok := e.rooms[roomID]
	if !ok {
		return false
	}
	switch p.state {
	case StepIdle:
	case StepFailed:
		if p.retry != RetryQuestion {
			return false
		}
	default:
		return false
	}
	p.state = StepAwaitingQuestion
	p.failure = ""
	p.retry = RetryNone
	return true
}

// ApplyQuestion feeds a fetched question into the room's state machine.
// Steps are monotonically non-decreasing: a question older than the one
// already shown is dropped, and re-fetching the displayed step is an
// idempotent no-op so the timeline never duplicates entries.
func (e *Engine) ApplyQuestion(roomID int64, q SurveyQuestion) Advance {
	p, ok := e.rooms[roomID]
	if !ok || p.state != StepAwaitingQuestion {
		return AdvanceIgnored
	}

	if q.Done {
		p.finalMessage = q.FinalMessage
		p.question = nil
		p.state = StepCompleting
		return AdvanceDone
	}

	if q.Step < p.lastStep {
		// Out-of-order response; keep waiting for the current fetch.
		return AdvanceIgnored
	}
	if q.Step == p.lastStep && p.question != nil {
		p.state = StepAwaitingPick
		return AdvanceRepeat
	}

	qq := q
	p.question = &qq
	p.lastStep = q.Step
	p.state = StepAwaitingPick
	return AdvanceQuestion
}

// Select records the user's pick for the current question and returns the
// submission to perform. Returns nil when the pick is invalid for the
// current state or when the same (step, option) pair was already selected -
// the idempotent guard that prevents a second network submit.
func (e *Engine) Select(roomID int64, step int, optionID int64) *SubmitRequest {
	p, ok := e.rooms[roomID]
	if !ok || p.state != StepAwaitingPick || p.question == nil || p.question.Step != step {
		return nil
	}
	valid := false
	for _, opt := range p.question.Options {
		if opt.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return nil
	}
	if prev, chosen := p.selections[step]; chosen && prev == optionID {
		return nil
	}

	p.selections[step] = optionID
	token, ok := p.tokens[step]
	if !ok {
		token = uuid.New().String()
		p.tokens[step] = token
	}
	p.state = StepSubmitting
	return &SubmitRequest{RoomID: roomID, Step: step, OptionID: optionID, Token: token}
}

// SubmitOK records a successful answer submission. The caller immediately
// fetches the next question.
func (e *Engine) SubmitOK(roomID int64, step int) bool {
	p, ok := e.rooms[roomID]
	if !ok || p.state != StepSubmitting || p.lastStep != step {
		return false
	}
	p.state = StepAwaitingQuestion
	return true
}

// BeginResultFetch transitions a completed room into waiting for its
// verdict. Valid only after Done was observed.
func (e *Engine) BeginResultFetch(roomID int64) bool {
	p, ok := e.rooms[roomID]
	if !ok || p.state != StepCompleting {
		return false
	}
	p.state = StepAwaitingResult
	return true
}

// ApplyResult stores the final verdict. Terminal: a result never changes
// once recorded.
func (e *Engine) ApplyResult(roomID int64, res ChatResult) bool {
	p, ok := e.rooms[roomID]
	if !ok || p.state != StepAwaitingResult {
		return false
	}
	rr := res
	p.result = &rr
	p.state = StepResolved
	return true
}

func (e *Engine) fail(roomID int64, from StepState, retry RetryKind, msg string) bool {
	p, ok := e.rooms[roomID]
	if !ok || p.state != from {
		return false
	}
	if msg == "" {
		msg = "Something went wrong"
	}
	p.state = StepFailed
	p.retry = retry
	p.failure = msg
	return true
}

// FailQuestion records a failed question fetch.
func (e *Engine) FailQuestion(roomID int64, msg string) bool {
	return e.fail(roomID, StepAwaitingQuestion, RetryQuestion, msg)
}

// FailSubmit records a failed answer submission. The step's selection is
// kept so a retry re-submits against the same step.
func (e *Engine) FailSubmit(roomID int64, msg string) bool {
	return e.fail(roomID, StepSubmitting, RetrySubmit, msg)
}

// FailResult records a failed verdict fetch.
func (e *Engine) FailResult(roomID int64, msg string) bool {
	return e.fail(roomID, StepAwaitingResult, RetryResult, msg)
}

// Retry re-arms the failed operation and reports which call to make. For
// RetrySubmit the returned request reuses the step's original idempotency
// token.
func (e *Engine) Retry(roomID int64) (RetryKind, *SubmitRequest) {
	p, ok := e.rooms[roomID]
	if !ok || p.state != StepFailed {
		return RetryNone, nil
	}
	kind := p.retry
	p.failure = ""
	p.retry = RetryNone

	switch kind {
	case RetryQuestion:
		p.state = StepAwaitingQuestion
		return kind, nil
	case RetrySubmit:
		optionID, chosen := p.selections[p.lastStep]
		if !chosen {
			p.state = StepAwaitingPick
			return RetryNone, nil
		}
		p.state = StepSubmitting
		return kind, &SubmitRequest{
			RoomID:   roomID,
			Step:     p.lastStep,
			OptionID: optionID,
			Token:    p.tokens[p.lastStep],
		}
	case RetryResult:
		p.state = StepAwaitingResult
		return kind, nil
	}
	return RetryNone, nil
}

// StateOf returns the room's current phase. Unknown rooms are Idle.
func (e *Engine) StateOf(roomID int64) StepState {
	if p, ok := e.rooms[roomID]; ok {
		return p.state
	}
	return StepIdle
}

// Question returns the current in-progress question for the room.
func (e *Engine) Question(roomID int64) (SurveyQuestion, bool) {
	if p, ok := e.rooms[roomID]; ok && p.question != nil {
		return *p.question, true
	}
	return SurveyQuestion{}, false
}

// Selected returns the option chosen for a step, if any.
func (e *Engine) Selected(roomID int64, step int) (int64, bool) {
	if p, ok := e.rooms[roomID]; ok {
		id, chosen := p.selections[step]
		return id, chosen
	}
	return 0, false
}

// Result returns the recorded verdict for a resolved room.
func (e *Engine) Result(roomID int64) (ChatResult, bool) {
	if p, ok := e.rooms[roomID]; ok && p.result != nil {
		return *p.result, true
	}
	return ChatResult{}, false
}

// FinalMessage returns the done-marker text observed for the room.
func (e *Engine) FinalMessage(roomID int64) string {
	if p, ok := e.rooms[roomID]; ok {
		return p.finalMessage
	}
	return ""
}

// Failure returns the human-readable failure message for a Failed room.
func (e *Engine) Failure(roomID int64) string {
	if p, ok := e.rooms[roomID]; ok {
		return p.failure
	}
	return ""
}

// RetryTarget returns what a Failed room would retry.
func (e *Engine) RetryTarget(roomID int64) RetryKind {
	if p, ok := e.rooms[roomID]; ok {
		return p.retry
	}
	return RetryNone
}
