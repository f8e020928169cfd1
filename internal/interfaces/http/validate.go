package http

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
)

var currencyRegex = regexp.MustCompile(`^[A-Za-z]{3}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("role", validateRole)
	_ = v.RegisterValidation("currency", validateCurrency)
	return v
}

func validateRole(fl validator.FieldLevel) bool {
	_, ok := entity.ParseRole(fl.Field().String())
	return ok
}

func validateCurrency(fl validator.FieldLevel) bool {
	return currencyRegex.MatchString(fl.Field().String())
}

// FieldError detalle de un campo rechazado.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func validationFailure(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return badRequest("VALIDATION", err.Error(), nil)
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return badRequest("VALIDATION", "datos inválidos", fields)
}

// bindBody decodifica el cuerpo JSON y valida sus tags.
func bindBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("INVALID_BODY", "cuerpo inválido", nil)
	}
	if err := validate.Struct(dst); err != nil {
		return validationFailure(err)
	}
	return nil
}

// bindQuery decodifica los parámetros de consulta y valida sus tags.
func bindQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return badRequest("INVALID_QUERY", "parámetros de consulta inválidos", nil)
	}
	if err := validate.Struct(dst); err != nil {
		return validationFailure(err)
	}
	return nil
}

// paramID devuelve un parámetro de ruta que debe ser un UUID.
func paramID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if err := validate.Var(id, "required,uuid"); err != nil {
		return "", badRequest("INVALID_ID", name+" inválido", nil)
	}
	return id, nil
}
