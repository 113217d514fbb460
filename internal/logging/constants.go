package logging

// Standardized field names for structured logging.
const (
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldType          = "type"
	FieldAmount        = "amount"
	FieldKey           = "key"
	FieldOperation     = "operation"
	FieldReason        = "reason"
	FieldError         = "error"
	FieldCount         = "count"
	FieldCycleAnchor   = "cycle_anchor"
	FieldCycleStartDay = "cycle_start_day"
	FieldCurrency      = "currency"
	FieldBackend       = "backend"
	FieldFile          = "file_path"
	FieldComponent     = "component"
	FieldSubscribers   = "subscribers"
)
