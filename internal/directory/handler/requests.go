package handler

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"advohub/internal/audit"
	"advohub/internal/directory"
	dErrors "advohub/pkg/domain-errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validationError turns validator output into a single coded error naming
// the first failing field.
func validationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
	}
	fe := ves[0]
	switch fe.Tag() {
	case "required":
		return dErrors.New(dErrors.CodeValidation, fe.Field()+" is required")
	case "oneof":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
	case "max", "lte":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
	case "min", "gte":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
	default:
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s is invalid", fe.Field()))
	}
}

// ListRequest is the query string of GET /admin/directory.
type ListRequest struct {
	Search string `query:"search" validate:"max=200"`
	Role   string `query:"role" validate:"max=50"`
	Status string `query:"status" validate:"max=50"`
	Sort   string `query:"sort" validate:"omitempty,oneof=name email createdAt role status origin"`
	Order  string `query:"order" validate:"omitempty,oneof=asc desc"`
	Page   int    `query:"page" validate:"gte=0"`
	Limit  int    `query:"limit" validate:"gte=0,lte=500"`
}

// ParseListRequest reads and validates the list query string.
func ParseListRequest(values url.Values) (*ListRequest, error) {
	req := &ListRequest{
		Search: strings.TrimSpace(values.Get("search")),
		Role:   strings.TrimSpace(values.Get("role")),
		Status: strings.TrimSpace(values.Get("status")),
		Sort:   strings.TrimSpace(values.Get("sort")),
		Order:  strings.ToLower(strings.TrimSpace(values.Get("order"))),
	}
	var err error
	if req.Page, err = intParam(values, "page"); err != nil {
		return nil, err
	}
	if req.Limit, err = intParam(values, "limit"); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	return req, nil
}

func intParam(values url.Values, name string) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, name+" must be an integer")
	}
	return n, nil
}

func (r *ListRequest) Query() directory.Query {
	return directory.Query{Search: r.Search, Role: r.Role, Status: r.Status}
}

func (r *ListRequest) SortSpec() directory.SortSpec {
	field, _ := directory.ParseSortField(r.Sort)
	return directory.SortSpec{Field: field, Desc: r.Order == "desc"}
}

// EditRequest is the body of PUT /admin/directory/{origin}/{id}. Changes is
// forwarded to the owning origin as-is.
type EditRequest struct {
	Changes map[string]any `json:"changes" validate:"required,min=1,max=32"`
}

// Validate implements httputil.Validatable.
func (r *EditRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

// AuditRequest is the query string of GET /admin/directory/audit.
type AuditRequest struct {
	Limit   int      `query:"limit" validate:"gte=0,lte=500"`
	Actions []string `query:"action" validate:"max=10,dive,oneof=directory_record_updated directory_record_deleted directory_status_toggled directory_action_denied directory_action_failed directory_refreshed"`
}

func ParseAuditRequest(values url.Values) (*AuditRequest, error) {
	limit, err := intParam(values, "limit")
	if err != nil {
		return nil, err
	}
	req := &AuditRequest{Limit: limit, Actions: values["action"]}
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	return req, nil
}

func (r *AuditRequest) Query() audit.Query {
	q := audit.Query{Limit: r.Limit}
	for _, a := range r.Actions {
		q.Actions = append(q.Actions, audit.Action(a))
	}
	return q
}
