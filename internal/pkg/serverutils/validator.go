package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts failures into a
// 400 fiber error with a readable field list.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	message := "validation failed:"
	for _, fieldError := range validationErrors {
		message += fmt.Sprintf(" %s (%s)", fieldError.Field(), fieldError.Tag())
	}
	return fiber.NewError(fiber.StatusBadRequest, message)
}
