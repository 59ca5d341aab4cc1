// internal/models/state.go
package models

import "time"

// StateBlob is one durable key/value row backing the commerce store.
// The store is the only writer; each mutation rewrites the full value.
type StateBlob struct {
	Key       string    `json:"key" gorm:"primaryKey;size:100"`
	Value     []byte    `json:"value" gorm:"type:jsonb"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StateBlob) TableName() string {
	return "state_blobs"
}
