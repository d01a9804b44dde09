package contact

import "strings"

// ServiceKinds are the only accepted values for ContactRequest.Service.
// Matching is exact and case sensitive.
var ServiceKinds = []string{
	"Web Design",
	"Web Development",
	"Graphic Design",
	"Web Hosting",
}

const (
	NameMaxLen    = 120
	EmailMaxLen   = 254
	MessageMinLen = 10
	MessageMaxLen = 5000
)

// ContactRequest represents a contact form submission.
// Website is a honeypot that real visitors never see.
// Length limits count runes, not bytes or UTF-16 code units.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"contactemail,max=254"`
	Service string `json:"service" validate:"servicekind"`
	Message string `json:"message" validate:"min=10,max=5000"`
	Website string `json:"website,omitempty"`
}

// Normalize trims surrounding whitespace from the free text fields.
// Service is left untouched so it must match a ServiceKind verbatim.
func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)
	r.Website = strings.TrimSpace(r.Website)
}

// IsSpam reports whether the honeypot field was filled
func (r *ContactRequest) IsSpam() bool {
	return strings.TrimSpace(r.Website) != ""
}

// IsServiceKind reports whether s is one of ServiceKinds
func IsServiceKind(s string) bool {
	for _, k := range ServiceKinds {
		if s == k {
			return true
		}
	}
	return false
}
