package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("incident_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "pending", "investigating", "resolved", "escalated":
			return true
		}
		return false
	})
	validate.RegisterValidation("admin_role", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "super" || s == "admin"
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
