package core

import "time"

const (
	TuskName          = "TuskCmd"
	TuskRepositoryURL = "https://github.com/sandevgo/tuskcmd"
	TuskVersion       = "0.1.0"
)

// Grant gives a subject one permission. Permission may end in ".*" or be "*".
type Grant struct {
	Subject    string    `json:"subject"`
	Permission string    `json:"permission"`
	GrantedBy  string    `json:"granted_by"`
	CreatedAt  time.Time `json:"created_at"`
}
