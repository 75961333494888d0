// Package models contains database model definitions.
package models

// Setting represents a key/value preference stored for the web client.
type Setting struct {
	ID    uint64 `gorm:"primaryKey" json:"-"`
	Key   string `gorm:"column:key;unique" json:"key"`
	Value string `gorm:"size:1024" json:"value"`
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}
