package model

// Item is the product record sent by clients and kept in the item store.
type Item struct {
	Name        string   `json:"name" example:"Foo"`
	Description *string  `json:"description" validate:"omitnil,max=300" maxLength:"300" description:"The description of the item"`
	Price       float64  `json:"price" validate:"gt=0" exclusiveMinimum:"0" description:"The price must be greater than zero"`
	Tax         *float64 `json:"tax" example:"3.2"`
}

// ItemWithTax is an Item plus the derived price_with_tax, present only when
// the item carries a tax.
type ItemWithTax struct {
	Item
	PriceWithTax *float64 `json:"price_with_tax,omitempty"`
}

// WithTax computes price_with_tax for item.
func WithTax(item Item) ItemWithTax {
	out := ItemWithTax{Item: item}
	if item.Tax != nil {
		total := item.Price + *item.Tax
		out.PriceWithTax = &total
	}
	return out
}

// Offer groups items under a single price.
type Offer struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Items       []Item  `json:"items" validate:"dive"`
}

// CatalogItem is an entry of the fixed legacy catalogue.
type CatalogItem struct {
	ItemName string `json:"item_name"`
}

// ProtectedItem is returned by the header-guarded listing.
type ProtectedItem struct {
	Item string `json:"item"`
}

// Book is an entry of the identifier-keyed book catalogue.
type Book struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Vehicle is either a car or a plane. Size is only set for planes.
type Vehicle struct {
	Description string `json:"description"`
	Type        string `json:"type" enum:"car,plane"`
	Size        *int   `json:"size,omitempty"`
}

const (
	VehicleCar   = "car"
	VehiclePlane = "plane"
)
