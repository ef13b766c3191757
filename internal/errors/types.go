package errors

// represents a standardized error response
type ErrorResponse struct {
	Error    string `json:"error"`              // error code (e.g., "unauthorized", "not_found")
	Message  string `json:"message"`            // user-friendly message
	Details  string `json:"details,omitempty"`  // optional details (sanitized in production)
	Artifact any    `json:"artifact,omitempty"` // generated output that could not be saved
}

// standard error codes
const (
	CodeUnauthorized        = "unauthorized"
	CodeForbidden           = "forbidden"
	CodeNotFound            = "not_found"
	CodeValidationError     = "validation_error"
	CodeServerError         = "server_error"
	CodeBadRequest          = "bad_request"
	CodeConflict            = "conflict"
	CodeTooManyRequests     = "too_many_requests"
	CodeInvalidOperation    = "invalid_operation"
	CodeInsufficientCredits = "insufficient_credits"
	CodeProviderRejected    = "provider_rejected"
	CodeProviderUnavailable = "provider_unavailable"
	CodeProviderTimeout     = "provider_timeout"
	CodeProviderRateLimited = "provider_rate_limited"
	CodePersistenceFailure  = "persistence_failure"
	CodeSuperseded          = "superseded"
)

// error categories for classification
const (
	CategoryDatabase   = "database"
	CategoryNetwork    = "network"
	CategoryValidation = "validation"
	CategoryAuth       = "auth"
	CategoryNotFound   = "not_found"
	CategoryTimeout    = "timeout"
	CategoryUnknown    = "unknown"
)

type ErrorInfo struct {
	category  string
	sanitized string
}

// Kind classifies a failure of the generation pipeline
type Kind string

const (
	KindConfiguration       Kind = "configuration"
	KindInvalid             Kind = "invalid"
	KindInsufficientCredits Kind = "insufficient_credits"
	KindProviderRejected    Kind = "provider_rejected"
	KindProviderTransient   Kind = "provider_transient"
	KindProviderTimeout     Kind = "provider_timeout"
	KindProviderRateLimited Kind = "provider_rate_limited"
	KindPersistenceFailure  Kind = "persistence_failure"
	KindPartialSuccess      Kind = "partial_success"
	KindSuperseded          Kind = "superseded"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindUnknown             Kind = "unknown"
)

// names of the failing pipeline stage, carried in GenerationError.Op
const (
	OpGenerationFailed      = "GenerationFailed"
	OpPromptSynthesisFailed = "PromptSynthesisFailed"
	OpImageGenerationFailed = "ImageGenerationFailed"
	OpVoiceCloneFailed      = "VoiceCloneFailed"
	OpSpeechSynthesisFailed = "SpeechSynthesisFailed"
	OpCreditDebit           = "CreditDebit"
	OpPersist               = "Persist"
)

// GenerationError is the typed error returned across the generation pipeline.
// Message is safe to show to end users, Detail is a machine string for support.
type GenerationError struct {
	Kind     Kind
	Op       string
	Message  string
	Detail   string
	Artifact any
	Err      error
}
