package model

// All lists every persisted model, in creation order.
func All() []interface{} {
	return []interface{}{
		&Note{},
	}
}
