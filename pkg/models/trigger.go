package models

// TriggerType enumerates the business events, the schedule tick and the
// manual override that can make a rule eligible for evaluation.
type TriggerType string

const (
	TriggerItemCreated         TriggerType = "ITEM_CREATED"
	TriggerItemUpdated         TriggerType = "ITEM_UPDATED"
	TriggerStockBelowThreshold TriggerType = "STOCK_BELOW_THRESHOLD"
	TriggerStockAboveThreshold TriggerType = "STOCK_ABOVE_THRESHOLD"
	TriggerTransactionCreated  TriggerType = "TRANSACTION_CREATED"
	TriggerOrderCreated        TriggerType = "ORDER_CREATED"
	TriggerOrderCompleted      TriggerType = "ORDER_COMPLETED"
	TriggerCycleCountCompleted TriggerType = "CYCLE_COUNT_COMPLETED"
	TriggerScheduled           TriggerType = "SCHEDULED"
	TriggerManual              TriggerType = "MANUAL"
)

var triggerTypes = map[TriggerType]struct{}{
	TriggerItemCreated:         {},
	TriggerItemUpdated:         {},
	TriggerStockBelowThreshold: {},
	TriggerStockAboveThreshold: {},
	TriggerTransactionCreated:  {},
	TriggerOrderCreated:        {},
	TriggerOrderCompleted:      {},
	TriggerCycleCountCompleted: {},
	TriggerScheduled:           {},
	TriggerManual:              {},
}

func (t TriggerType) Valid() bool {
	_, ok := triggerTypes[t]

	return ok
}

// TriggerEvent is the ephemeral value carried into the engine for one
// business event. The context shape is event-specific.
type TriggerEvent struct {
	Type    TriggerType    `json:"type"`
	Context map[string]any `json:"context"`
}
