package response

// ErrCode is a typed error code enum for consistent failure identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"
	ErrUnauthorized  ErrCode = "UNAUTHORIZED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Quiz / Certificate ────────────────────────────────────────────
	ErrService     ErrCode = "SERVICE_ERROR"
	ErrNotEligible ErrCode = "NOT_ELIGIBLE"

	// ─── Transport ─────────────────────────────────────────────────────
	ErrTransport ErrCode = "TRANSPORT_ERROR"
	ErrCanceled  ErrCode = "CANCELED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "You need to log in first."
	case ErrTokenExpired:
		return "Your session has expired. Please log in again."
	case ErrUnauthorized:
		return "You are not authorized to perform this action."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The service returned an unexpected payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Quiz / Certificate ────────────────────────────────────────────
	case ErrService:
		return "The request was rejected by the service."
	case ErrNotEligible:
		return "Pass the course quiz to unlock your certificate."

	// ─── Transport ─────────────────────────────────────────────────────
	case ErrTransport:
		return "Could not reach the service. Please try again."
	case ErrCanceled:
		return "The request was canceled."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal error occurred."
	default:
		return "An unexpected error occurred."
	}
}
