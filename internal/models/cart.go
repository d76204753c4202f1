package models

type CartItem struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

func (ci CartItem) LineTotal() Money {
	return ci.Item.Price.Times(ci.Quantity)
}

type CartState struct {
	ID      string     `json:"id,omitempty"`
	Items   []CartItem `json:"items"`
	Total   Money      `json:"total"`
	Visible bool       `json:"visible"`
}
