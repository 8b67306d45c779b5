package order

import (
	"maps"
	"slices"
	"time"

	"github.com/orderflow/engine/store"
)

// Order is a single customer order tracked by a Machine.
//
// ID and CustomerID are fixed at creation. Status is owned by the
// Machine and only changes through validated transitions. The remaining
// typed fields mirror the persisted record shape; transition fields that
// match no typed field accumulate in Fields.
type Order struct {
	ID               string
	CustomerID       string
	Items            []string
	Status           Status
	Total            int
	PaymentStatus    string
	ShippingStatus   string
	InventoryChecked bool
	Fields           map[string]any
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Clone returns an independent copy of the order. The items slice and
// extra-field map are cloned, so mutations of the copy never reach the
// original.
func (o *Order) Clone() *Order {
	clone := *o
	clone.Items = slices.Clone(o.Items)
	clone.Fields = maps.Clone(o.Fields)
	return &clone
}

// apply merges transition fields into the order. The keys "total",
// "payment_status", "shipping_status" and "inventory_checked" update
// their typed counterparts; every other key lands in Fields. Totals
// arrive as int from domain code and as float64 after a JSON round trip,
// so both are accepted.
func (o *Order) apply(fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "total":
			switch v := value.(type) {
			case int:
				o.Total = v
			case int64:
				o.Total = int(v)
			case float64:
				o.Total = int(v)
			}
		case "payment_status":
			if v, ok := value.(string); ok {
				o.PaymentStatus = v
			}
		case "shipping_status":
			if v, ok := value.(string); ok {
				o.ShippingStatus = v
			}
		case "inventory_checked":
			if v, ok := value.(bool); ok {
				o.InventoryChecked = v
			}
		default:
			if o.Fields == nil {
				o.Fields = make(map[string]any)
			}
			o.Fields[key] = value
		}
	}
}

// Snapshot flattens the order into a store.Record for persistence.
// Extra fields are written first so the typed fields always win; the
// resulting key set matches the machine's view of the order.
func (o *Order) Snapshot() store.Record {
	record := make(store.Record, len(o.Fields)+8)
	for key, value := range o.Fields {
		record[key] = value
	}
	record["order_id"] = o.ID
	record["customer_id"] = o.CustomerID
	record["items"] = slices.Clone(o.Items)
	record["status"] = string(o.Status)
	record["total"] = o.Total
	record["payment_status"] = o.PaymentStatus
	record["shipping_status"] = o.ShippingStatus
	record["inventory_checked"] = o.InventoryChecked
	return record
}
