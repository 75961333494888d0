package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIRootPath is the path prefix all JSON endpoints are registered under.
	APIRootPath = "/api/"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// ErrMsgInvalidRequestData is the message returned for unparseable request bodies.
	ErrMsgInvalidRequestData = "Invalid request data"

	// ErrMsgInvalidID is the message returned for non-numeric id path parameters.
	ErrMsgInvalidID = "Invalid id"
)
