package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldTxID        = "tx_id"
	FieldTxCount     = "tx_count"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldCurrency    = "currency"
	FieldMonth       = "month"
	FieldVersion     = "version"
	FieldSlot        = "slot"
	FieldPath        = "path"
	FieldRow         = "row"
	FieldImported    = "imported"
	FieldInvalid     = "invalid"
	FieldDuplicates  = "duplicates"
	FieldDuration    = "duration_ms"
)

// Components defines standard component names.
const (
	ComponentApp      = "app"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentImport   = "import"
	ComponentExport   = "export"
	ComponentReport   = "report"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentCache    = "cache"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpImport   = "import"
	OpExport   = "export"
	OpMigrate  = "migrate"
	OpSnapshot = "snapshot"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
