package websocket

import "github.com/stemsi/codetest-backend/internal/session"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionState          Action = "state"
	ActionSaveDraft      Action = "save_draft"
	ActionRun            Action = "run"
	ActionSubmitQuestion Action = "submit_question"
	ActionRequestSubmit  Action = "request_submit"
	ActionConfirmSubmit  Action = "confirm_submit"
	ActionCancelSubmit   Action = "cancel_submit"
	ActionFocusLost      Action = "focus_lost"
	ActionNavigateBack   Action = "nav_back"
	ActionRetry          Action = "retry"
	ActionPing           Action = "ping"
)

// RequestPayload is every client message. Fields a given action does not use
// are ignored.
type RequestPayload struct {
	Action         Action `json:"action"`
	QuestionID     string `json:"question_id,omitempty"`
	Code           string `json:"code,omitempty"`
	Language       string `json:"language,omitempty"`
	CustomInput    string `json:"custom_input,omitempty"`
	UseCustomInput bool   `json:"use_custom_input,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────
//
// Session events are sent as session.Event. The types below answer a
// specific client action.

type Event string

const (
	EventError Event = "error"
	EventAck   Event = "ack"
	EventState Event = "state"
	EventPong  Event = "pong"
)

type AckResponse struct {
	Event  Event  `json:"event"`
	Action Action `json:"action"`
}

type StateResponse struct {
	Event Event         `json:"event"`
	Data  session.State `json:"data"`
}

type ErrorResponse struct {
	Event  Event  `json:"event"`
	Action Action `json:"action,omitempty"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
