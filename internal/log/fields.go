package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
)

// Standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentCategory = "category"
	ComponentExpense  = "expense"
	ComponentReport   = "report"
	ComponentStorage  = "storage"
	ComponentSeed     = "seed"
	ComponentAMQP     = "amqp"
)

// Standard operation names.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpSeed   = "seed"
)
