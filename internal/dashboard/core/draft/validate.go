package draft

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
)

const (
	MsgClienteRequired = "El campo cliente es obligatorio."
	MsgItemsRequired   = "Debes agregar al menos 1 item."
	MsgItemIncomplete  = "Cada item debe tener producto, talla y color."
	MsgCantidadMin     = "La cantidad debe ser mínimo 1."
	MsgPrecioPositive  = "El precio unitario debe ser mayor a 0."
)

// fieldMessages maps a struct field to the message shown when it fails.
// The validator walks fields in declaration order, so the first reported
// error is the first rule that fails.
var fieldMessages = map[string]string{
	"Cliente":        MsgClienteRequired,
	"Items":          MsgItemsRequired,
	"Producto":       MsgItemIncomplete,
	"Talla":          MsgItemIncomplete,
	"Color":          MsgItemIncomplete,
	"Cantidad":       MsgCantidadMin,
	"PrecioUnitario": MsgPrecioPositive,
}

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks d and returns the first failing rule as a
// *entity.ValidationError, or nil.
func Validate(d entity.OrderDraft) error {
	return validate(newValidator(), d)
}

func validate(v *validator.Validate, d entity.OrderDraft) error {
	err := v.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	first := verrs[0]
	msg, ok := fieldMessages[first.StructField()]
	if !ok {
		msg = first.Error()
	}
	return &entity.ValidationError{
		Field:   strings.TrimPrefix(first.Namespace(), "OrderDraft."),
		Message: msg,
	}
}
