package httpx

// ErrorCode classifies an APIError by which stage of the workflow
// rejected the call. The set mirrors the kinds an authzee.ErrorBundle
// can carry (definition, grant, request), plus two transport-level
// kinds no workflow stage produces on its own: a body that never
// reached grant/request validation, and an unhandled server fault.
type ErrorCode string

const (
	ErrMalformedRequest  ErrorCode = "malformed_request"
	ErrInvalidDefinition ErrorCode = "invalid_definition"
	ErrInvalidGrant      ErrorCode = "invalid_grant"
	ErrInvalidRequest    ErrorCode = "invalid_request"
	ErrInternal          ErrorCode = "internal"
)

func SafeErrMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
