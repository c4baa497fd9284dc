package log

// Common field names for structured logging.
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldJob           = "job"
	FieldDefinitionID  = "definition_id"
	FieldTransactionID = "transaction_id"
	FieldObligationID  = "obligation_id"
	FieldOccurrence    = "occurrence"
	FieldDueDate       = "due_date"
	FieldAmountCents   = "amount_cents"
	FieldFrequency     = "frequency"
	FieldLeadDays      = "lead_days"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentScheduler = "scheduler"
	ComponentStorage   = "storage"
	ComponentNotify    = "notify"
)
