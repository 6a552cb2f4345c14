package tracer

// LogData carries the request identity that rides along in every log line
// written during one HTTP request. Fields are picked up by ylog through
// the tracer tag.
type LogData struct {
	RemoteAddr string `tracer:"remote_addr"`
	TraceID    string `tracer:"trace_id"`
}
