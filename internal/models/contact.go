package models

// Contact is a read-only entry of the contacts grid.
type Contact struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Role   string `json:"role" yaml:"role"`
	Avatar string `json:"avatar" yaml:"avatar"`
	Email  string `json:"email" yaml:"email"`
	Phone  string `json:"phone" yaml:"phone"`
}
