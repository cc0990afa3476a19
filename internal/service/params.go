package service

import (
	"reflect"
	"strings"

	"bank-offers/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DiscountParams are the inputs of a highest-discount query.
type DiscountParams struct {
	AmountToPay       decimal.Decimal `validate:"gt=0"`
	BankName          string          `validate:"notblank"`
	PaymentInstrument string          `validate:"required,instrument"`
}

// SummaryParams are the inputs of a discount summary query.
type SummaryParams struct {
	AmountToPay decimal.Decimal `validate:"gt=0"`
	BankName    string          `validate:"notblank"`
}

// AvailableParams select a page of available offers.
type AvailableParams struct {
	BankName          string `validate:"notblank"`
	PaymentInstrument string `validate:"omitempty,instrument"`
	Page              int    `validate:"gte=1"`
	Limit             int    `validate:"gte=1,lte=100"`
}

var violationMessages = map[string]string{
	"AmountToPay.gt":               "Amount to pay must be greater than 0",
	"BankName.notblank":            "Bank name is required",
	"PaymentInstrument.required":   "Payment instrument is required",
	"PaymentInstrument.instrument": "Invalid payment instrument. Valid options: " + strings.Join(model.InstrumentTokens(), ", "),
	"Page.gte":                     "Page must be at least 1",
	"Limit.gte":                    "Limit must be between 1 and 100",
	"Limit.lte":                    "Limit must be between 1 and 100",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	_ = v.RegisterValidation("instrument", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseInstrument(fl.Field().String())
		return ok
	})

	return v
}

// validateParams checks params and reports every violation at once.
func validateParams(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	violations := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := violationMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		violations = append(violations, msg)
	}

	return model.NewValidationError(violations...)
}

// normaliseBankName maps user input onto the stored bank name form.
func normaliseBankName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
