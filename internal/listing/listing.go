// Package listing holds the constraint set a listing must satisfy before it is
// stored. The same rules run in the submission form and in the HTTP handler.
package listing

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"rental-listings/internal/models"
)

// TagName is the struct tag the rules live under. It matches gin's binding tag
// so the same struct can be bound and validated by the router.
const TagName = "binding"

// Input is the client-editable part of a listing
type Input struct {
	Image       string `json:"image"`
	Title       string `json:"title" binding:"notblank"`
	Description string `json:"description" binding:"notblank"`
	Price       int    `json:"price" binding:"min=1"`
	Guests      int    `json:"guests" binding:"min=1"`
	Beds        int    `json:"beds" binding:"min=1"`
	Baths       int    `json:"baths" binding:"min=1"`
}

// Normalized returns a copy with surrounding whitespace removed from text fields
func (in Input) Normalized() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// Listing builds the entity to persist from the input
func (in Input) Listing() *models.Listing {
	n := in.Normalized()
	return &models.Listing{
		Image:       n.Image,
		Title:       n.Title,
		Description: n.Description,
		Price:       n.Price,
		Guests:      n.Guests,
		Beds:        n.Beds,
		Baths:       n.Baths,
	}
}

// FromListing returns the editable fields of an existing listing
func FromListing(l *models.Listing) Input {
	return Input{
		Image:       l.Image,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Guests:      l.Guests,
		Beds:        l.Beds,
		Baths:       l.Baths,
	}
}

// ValidationErrors maps a JSON field name to a human readable problem
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, e[f])
	}
	return "invalid listing: " + strings.Join(parts, "; ")
}

var (
	defaultValidator *validator.Validate
	initOnce         sync.Once
)

// RegisterValidations installs the custom rules used by Input on v
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func engine() *validator.Validate {
	initOnce.Do(func() {
		v := validator.New()
		v.SetTagName(TagName)
		if err := RegisterValidations(v); err != nil {
			panic(fmt.Sprintf("listing: register validations: %v", err))
		}
		v.RegisterTagNameFunc(jsonName)
		defaultValidator = v
	})
	return defaultValidator
}

// Validate checks in against the listing rules. The returned error, if any,
// is a ValidationErrors.
func Validate(in Input) error {
	return Translate(engine().Struct(in))
}

// Translate converts validator output into ValidationErrors. Errors of any
// other kind are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidationErrors, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe)
		switch fe.Tag() {
		case "notblank":
			out[name] = name + " is a required field"
		case "min":
			out[name] = fmt.Sprintf("%s must be greater than or equal to %s", name, fe.Param())
		default:
			out[name] = name + " is invalid"
		}
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	if n := fe.Field(); n != "" && n != fe.StructField() {
		return n
	}
	return strings.ToLower(fe.StructField())
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
