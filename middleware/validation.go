package middleware

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

var tagMessages = map[string]string{
	"required": "This field is required",
	"email":    "Enter a valid email address",
	"url":      "Enter a valid URL",
	"oneof":    "Select a valid choice",
	"min":      "Value is too short or too small",
	"max":      "Value is too long or too large",
	"gte":      "Value is too small",
	"lte":      "Value is too large",
	"eqfield":  "Values do not match",
	"gtefield": "Maximum must not be below the minimum",
	"datetime": "Enter a date as YYYY-MM-DD",
}

// ValidateStruct runs the validate tags of s and returns field -> message.
// A nil map means the struct is valid.
func ValidateStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[fe.Field()] = msg
	}
	return out
}

// ParamID validates the positive integer route parameter param and stores it
// as uint under localKey.
func ParamID(param, localKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt(param)
		if err != nil || id <= 0 {
			return JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+strings.ReplaceAll(param, "_", " ")+"!", nil)
		}
		c.Locals(localKey, uint(id))
		return c.Next()
	}
}

// LocalID returns an id stored by ParamID.
func LocalID(c *fiber.Ctx, localKey string) uint {
	id, _ := c.Locals(localKey).(uint)
	return id
}
