package models

// ActionType names a side-effecting operation. The set is open-ended: types
// are resolved at runtime against the handler registry supplied by the host.
type ActionType string

// Handler types shipped with this system.
const (
	ActionSendEmail           ActionType = "SEND_EMAIL"
	ActionCreatePurchaseOrder ActionType = "CREATE_PURCHASE_ORDER"
	ActionAdjustInventory     ActionType = "ADJUST_INVENTORY"
	ActionUpdateItem          ActionType = "UPDATE_ITEM"
	ActionCreateAlert         ActionType = "CREATE_ALERT"
	ActionCallWebhook         ActionType = "CALL_WEBHOOK"
	ActionUpdateStatus        ActionType = "UPDATE_STATUS"
)

// Action is one side-effecting step of a rule. Config values may contain
// template placeholders, materialized against the trigger context plus prior
// actions' outputs just before the handler runs. Actions execute in ascending
// Order; ties keep their original sequence position.
type Action struct {
	Type   ActionType     `json:"type"   validate:"required"`
	Config map[string]any `json:"config"`
	Order  int            `json:"order"`
}
