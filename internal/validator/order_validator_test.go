package validator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tyretrust/internal/usecase"
	"tyretrust/internal/validator"
)

func validForm() usecase.ShippingForm {
	return usecase.ShippingForm{
		FirstName:  "Ivan",
		LastName:   "Petrov",
		Email:      "ivan@example.com",
		Phone:      "+79161234567",
		Address:    "Lenina st. 10, apt 5",
		PostalCode: "101000",
		City:       "Moscow",
	}
}

func TestOrderValidator_ValidForm(t *testing.T) {
	v := validator.NewOrderValidator()
	errs := v.ValidateShippingForm(context.Background(), validForm())
	assert.Empty(t, errs)
}

func TestOrderValidator_Phone(t *testing.T) {
	v := validator.NewOrderValidator()

	cases := []struct {
		name  string
		phone string
		want  string
	}{
		{"plus seven", "+79161234567", ""},
		{"leading eight", "89161234567", ""},
		{"leading seven", "79161234567", ""},
		{"too short", "12345", "invalid phone number"},
		{"too long", "+791612345678", "invalid phone number"},
		{"letters", "+7916abc4567", "invalid phone number"},
		{"empty", "", "required"},
		// 前後の空白は無視する
		{"padded", "  +79161234567  ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.Phone = tc.phone
			errs := v.ValidateShippingForm(context.Background(), form)
			if tc.want == "" {
				assert.NotContains(t, errs, "phone")
			} else {
				assert.Equal(t, tc.want, errs["phone"])
			}
		})
	}
}

func TestOrderValidator_Address(t *testing.T) {
	v := validator.NewOrderValidator()

	cases := []struct {
		name    string
		address string
		want    string
	}{
		{"ok", "Lenina st. 10", ""},
		{"exactly five runes", "ул. 1", ""},
		{"too short", "abc", "address is too short"},
		{"spaces only", "            ", "address is too short"},
		{"digits only", "1234567890", "invalid address"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.Address = tc.address
			errs := v.ValidateShippingForm(context.Background(), form)
			if tc.want == "" {
				assert.NotContains(t, errs, "address")
			} else {
				assert.Equal(t, tc.want, errs["address"])
			}
		})
	}
}

func TestOrderValidator_Email(t *testing.T) {
	v := validator.NewOrderValidator()

	form := validForm()
	form.Email = "not-an-email"
	errs := v.ValidateShippingForm(context.Background(), form)
	assert.Equal(t, "invalid email", errs["email"])

	form.Email = ""
	errs = v.ValidateShippingForm(context.Background(), form)
	assert.Equal(t, "required", errs["email"])
}

func TestOrderValidator_Note(t *testing.T) {
	v := validator.NewOrderValidator()

	form := validForm()
	form.Note = strings.Repeat("あ", 150)
	errs := v.ValidateShippingForm(context.Background(), form)
	assert.NotContains(t, errs, "note")

	form.Note = strings.Repeat("あ", 151)
	errs = v.ValidateShippingForm(context.Background(), form)
	assert.Equal(t, "note is too long", errs["note"])
}

// 全項目分のエラーを一度に返す
func TestOrderValidator_CollectsAllErrors(t *testing.T) {
	v := validator.NewOrderValidator()

	errs := v.ValidateShippingForm(context.Background(), usecase.ShippingForm{})
	require.NotEmpty(t, errs)
	for _, field := range []string{"first_name", "last_name", "email", "phone", "address", "postal_code", "city"} {
		assert.Contains(t, errs, field)
	}
}
