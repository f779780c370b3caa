// Package models holds the GORM entities of the API together with their
// validation rules and persistence hooks.
package models

// All lists every model, in migration order.
func All() []any {
	return []any{&User{}, &Course{}}
}
