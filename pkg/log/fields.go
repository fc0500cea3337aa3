package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches pkg/middleware/auth.go keys)
	FieldUserID = "user_id"
	FieldHandle = "handle"

	// Domain
	FieldArtistID = "artist_id"
	FieldViewerID = "viewer_id"
	FieldQuery    = "query"

	// Service
	FieldService = "service"
)
