package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldEntryID     = "entry_id"
	FieldEntryName   = "name"
	FieldCategory    = "category"
	FieldAmountDaily = "amount_daily"
	FieldCurrency    = "currency"
	FieldFrequency   = "frequency"
	FieldBase        = "base"
	FieldRecipient   = "recipient"
	FieldBackend     = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentRates   = "rates"
	ComponentNotify  = "notify"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
)
