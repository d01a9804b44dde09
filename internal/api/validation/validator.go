package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/engabdalla/portfolio-api/internal/api/dto/v1/contact"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidJSON is returned when the body is not parseable JSON
var ErrInvalidJSON = errors.New("invalid JSON body")

var emailRegex = regexp.MustCompile(`(?i)^[a-z0-9_'+\-.]*[a-z0-9_+\-]@([a-z0-9][a-z0-9\-]*\.)+[a-z]{2,}$`)

// fieldOrder fixes the order failures are reported in
var fieldOrder = []string{"name", "email", "service", "message", "website"}

var fieldLabels = map[string]string{
	"name":    "Name",
	"email":   "Email",
	"service": "Service",
	"message": "Message",
	"website": "Website",
}

// FieldError is a single failed constraint
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of validating a submission. A Result without
// errors means the request is valid.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Message joins every failure message with ", "
func (r Result) Message() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, ", ")
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

func (r Result) has(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (r *Result) sort() {
	sorted := make([]FieldError, 0, len(r.Errors))
	for _, f := range append([]string{""}, fieldOrder...) {
		for _, e := range r.Errors {
			if e.Field == f {
				sorted = append(sorted, e)
			}
		}
	}
	r.Errors = sorted
}

// Validator checks contact submissions
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	RegisterValidators(v)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("contactemail", validateEmail)
	v.RegisterValidation("servicekind", validateServiceKind)
}

// validateEmail checks the address shape. Leading dots and ".." are
// rejected separately since RE2 has no lookahead.
func validateEmail(fl validator.FieldLevel) bool {
	email := fl.Field().String()
	if strings.HasPrefix(email, ".") || strings.Contains(email, "..") {
		return false
	}
	return emailRegex.MatchString(email)
}

func validateServiceKind(fl validator.FieldLevel) bool {
	return contact.IsServiceKind(fl.Field().String())
}

// Decode parses body into a ContactRequest. Syntactically broken JSON
// yields ErrInvalidJSON. Members of the wrong type are reported in the
// returned Result instead, the same way a failed constraint would be.
// The returned request is not normalized.
func Decode(body []byte) (*contact.ContactRequest, Result, error) {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, Result{}, ErrInvalidJSON
	}

	var res Result
	obj, ok := raw.(map[string]interface{})
	if !ok {
		res.add("", "Request body must be a JSON object")
		return &contact.ContactRequest{}, res, nil
	}

	req := &contact.ContactRequest{}
	targets := map[string]*string{
		"name":    &req.Name,
		"email":   &req.Email,
		"service": &req.Service,
		"message": &req.Message,
		"website": &req.Website,
	}
	for _, field := range fieldOrder {
		v, present := obj[field]
		if !present || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			res.add(field, fieldLabels[field]+" must be a string")
			continue
		}
		*targets[field] = s
	}

	return req, res, nil
}

// Validate normalizes req in place and checks it. Fields that already
// failed in prior are not checked again.
func (v *Validator) Validate(req *contact.ContactRequest, prior Result) Result {
	res := Result{Errors: append([]FieldError(nil), prior.Errors...)}
	if res.has("") {
		return res
	}

	req.Normalize()

	err := v.validate.Struct(req)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if res.has(fe.Field()) {
				continue
			}
			res.add(fe.Field(), fieldMessage(fe))
		}
	}

	res.sort()
	return res
}

// fieldMessage turns a failed tag into the message shown to visitors.
// validator stops at the first failing tag of a field, so each field
// contributes at most one message, in tag order.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		if fe.Tag() == "required" {
			return "Name is required"
		}
		if fe.Tag() == "max" {
			return "Name must be at most " + fe.Param() + " characters"
		}
	case "email":
		if fe.Tag() == "max" {
			return "Email must be at most " + fe.Param() + " characters"
		}
		return "Invalid email address"
	case "service":
		return "Please select a valid service"
	case "message":
		if fe.Tag() == "min" {
			return "Message must be at least " + fe.Param() + " characters"
		}
		if fe.Tag() == "max" {
			return "Message must be at most " + fe.Param() + " characters"
		}
	}

	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	return label + " is invalid"
}
