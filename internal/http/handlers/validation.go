package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/shopspring/decimal"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return "Missing required field: " + field
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func validationDetails(err error) []ledger.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ledger.FieldError{{Description: err.Error()}}
	}
	details := make([]ledger.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, ledger.FieldError{Field: fe.Field(), Description: describe(fe)})
	}
	return details
}

// priceDetails checks an optional money field against the stored precision and range.
func priceDetails(field string, price *decimal.Decimal) []ledger.FieldError {
	if price == nil {
		return nil
	}
	if err := models.CheckPrice(*price); err != nil {
		return []ledger.FieldError{{Field: field, Description: field + " " + err.Error()}}
	}
	return nil
}

// decodeAndValidate reads the JSON body into dst and runs struct validation.
// It writes the 400 response itself and returns false on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readJSON(w, r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeValidationError(w, validationDetails(err))
		return false
	}
	return true
}
