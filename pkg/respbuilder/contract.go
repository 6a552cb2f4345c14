package respbuilder

type ErrKind int64

const (
	ErrUnhandled ErrKind = iota + 1
	ErrValidation
	ErrDuplicateEntries
	ErrResourceNotFound
	ErrUnauthorized
	ErrUnprocessable
	ErrUpstream
)

type Reason struct {
	Code    string
	Message string
}

func (r *Reason) Error() string {
	return r.Message
}

var ErrX = &Reason{Code: "", Message: ""}

var ReasonMap = map[ErrKind]Reason{
	ErrUnhandled:        {Code: "01", Message: "unhandled error"},
	ErrValidation:       {Code: "02", Message: "error validation"},
	ErrDuplicateEntries: {Code: "03", Message: "duplicate entries"},
	ErrResourceNotFound: {Code: "04", Message: "resource not found"},
	ErrUnauthorized:     {Code: "05", Message: "unauthorized"},
	ErrUnprocessable:    {Code: "06", Message: "unprocessable entity"},
	ErrUpstream:         {Code: "07", Message: "upstream service error"},
}

// ErrorEntity contain code, message, debug (*if applicable) and trace id.
type ErrorEntity struct {
	Code    string `json:"error_code"`        // to handle by FE
	Message string `json:"error_description"` // to handle by FE (string version of the error code)
	Debug   string `json:"debug,omitempty"`   // technical error
	TraceID string `json:"trace_id"`
}

// HTTPError wraps the error entity under an "error" key so the client can
// distinguish it from a success envelope at a glance.
type HTTPError struct {
	Err ErrorEntity `json:"error"`
}

func (e HTTPError) Error() string {
	return e.Err.Message + ": " + e.Err.Debug
}

// HTTPSuccess success response always wrap in data key.
type HTTPSuccess struct {
	TraceID string      `json:"trace_id"`
	Data    interface{} `json:"data"`
}
