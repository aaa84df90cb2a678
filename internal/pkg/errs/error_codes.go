package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed or has the wrong shape.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate exceeded the configured limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Task and File Business Logic Errors
const (
	// ErrTaskNotFound indicates that no task exists with the requested id.
	ErrTaskNotFound = 2001

	// ErrNoFileUploaded indicates a multipart upload request without a file field.
	ErrNoFileUploaded = 2101

	// ErrFileStorageFailed indicates the file store rejected or failed a write.
	ErrFileStorageFailed = 2102
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUserAlreadyExists indicates a registration attempt with a taken username.
	ErrUserAlreadyExists = 3001

	// ErrMissingCredentials indicates a login or registration request missing username or password.
	ErrMissingCredentials = 3002

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = 3003

	// ErrUnauthorized indicates a missing or invalid bearer token on a protected endpoint.
	ErrUnauthorized = 3004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000
)
