package enums

// SyncAction labels channel adapter calls in the audit log.
type SyncAction string

const (
	SyncActionCreateProduct   SyncAction = "create_product"
	SyncActionUpdateProduct   SyncAction = "update_product"
	SyncActionDeleteProduct   SyncAction = "delete_product"
	SyncActionUpdateInventory SyncAction = "update_inventory"
	SyncActionGetInventory    SyncAction = "get_inventory"
	SyncActionListOrders      SyncAction = "list_orders"
	SyncActionUpdateOrder     SyncAction = "update_order"
)

// String implements fmt.Stringer.
func (a SyncAction) String() string {
	return string(a)
}

// SyncOutcome records whether an audited channel call succeeded.
type SyncOutcome string

const (
	SyncOutcomeSuccess SyncOutcome = "success"
	SyncOutcomeFailed  SyncOutcome = "failed"
)

// String implements fmt.Stringer.
func (o SyncOutcome) String() string {
	return string(o)
}
