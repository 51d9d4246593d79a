package topics

const (
	// Auditoria das operações do wager-client
	WagerOperations = "wager_operations"

	// DLQs
	WagerOperationsDLQ = "wager_operations_dlq"
)
