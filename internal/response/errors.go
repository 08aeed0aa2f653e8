package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"
	ErrStreamActive  ErrCode = "STREAM_ALREADY_ACTIVE"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied    ErrCode = "PERMISSION_DENIED"
	ErrCandidateAccessOnly ErrCode = "CANDIDATE_ACCESS_ONLY"
	ErrAdminAccessOnly     ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload  ErrCode = "INVALID_PAYLOAD"
	ErrInvalidLanguage ErrCode = "INVALID_LANGUAGE"
	ErrEmptySource     ErrCode = "EMPTY_SOURCE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Test-specific ─────────────────────────────────────────────────
	ErrTestNotRunning      ErrCode = "TEST_NOT_RUNNING"
	ErrAlreadyAttempted    ErrCode = "ALREADY_ATTEMPTED"
	ErrSessionNotActive    ErrCode = "SESSION_NOT_ACTIVE"
	ErrQuestionBusy        ErrCode = "QUESTION_BUSY"
	ErrUnknownQuestion     ErrCode = "UNKNOWN_QUESTION"
	ErrNoPendingSubmit     ErrCode = "NO_PENDING_SUBMIT"
	ErrNothingToRetry      ErrCode = "NOTHING_TO_RETRY"
	ErrExecutionFailed     ErrCode = "EXECUTION_UNAVAILABLE"
	ErrReportWriteFailed   ErrCode = "REPORT_WRITE_UNAVAILABLE"
	ErrReportEntryNotFound ErrCode = "REPORT_ENTRY_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal    ErrCode = "INTERNAL_ERROR"
	ErrUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."
	case ErrStreamActive:
		return "This test is already open in another window."

	case ErrPermissionDenied:
		return "Permission denied."
	case ErrCandidateAccessOnly:
		return "This resource is limited to candidates."
	case ErrAdminAccessOnly:
		return "This resource is limited to administrators."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidLanguage:
		return "Unsupported programming language."
	case ErrEmptySource:
		return "Source code is empty."

	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	case ErrTestNotRunning:
		return "This test is not running."
	case ErrAlreadyAttempted:
		return "You have already attempted this test."
	case ErrSessionNotActive:
		return "The session is not accepting changes."
	case ErrQuestionBusy:
		return "A run is already in progress for this question."
	case ErrUnknownQuestion:
		return "Question is not part of this test."
	case ErrNoPendingSubmit:
		return "There is no submission awaiting confirmation."
	case ErrNothingToRetry:
		return "There is no failed submission to retry."
	case ErrExecutionFailed:
		return "The code execution service is unavailable. Please try again."
	case ErrReportWriteFailed:
		return "Your result could not be saved. Please retry."
	case ErrReportEntryNotFound:
		return "The candidate has no entry in this report."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "Internal server error."
	case ErrUnavailable:
		return "Service temporarily unavailable."
	default:
		return "An unexpected error occurred."
	}
}
