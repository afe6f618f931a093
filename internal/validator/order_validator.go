package validator

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"tyretrust/internal/usecase"
)

// +7 / 8 / 7 始まりの10桁
var phoneRe = regexp.MustCompile(`^(\+7|8|7)\d{10}$`)

var digitsOnlyRe = regexp.MustCompile(`^\d+$`)

type orderValidator struct{}

func NewOrderValidator() usecase.OrderValidator {
	return &orderValidator{}
}

// 配送先フォームを検証して項目別エラーを返す。
// 空mapなら合格。途中で打ち切らず全項目を見る。
func (v *orderValidator) ValidateShippingForm(ctx context.Context, form usecase.ShippingForm) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(form.FirstName) == "" {
		errs["first_name"] = "required"
	}
	if strings.TrimSpace(form.LastName) == "" {
		errs["last_name"] = "required"
	}

	email := strings.TrimSpace(form.Email)
	if email == "" {
		errs["email"] = "required"
	} else if !isEmailLike(email) {
		errs["email"] = "invalid email"
	}

	phone := strings.TrimSpace(form.Phone)
	if phone == "" {
		errs["phone"] = "required"
	} else if !phoneRe.MatchString(phone) {
		errs["phone"] = "invalid phone number"
	}

	// 住所は前後空白を落として5文字以上、かつ数字だけは不可
	address := strings.TrimSpace(form.Address)
	if utf8.RuneCountInString(address) < 5 {
		errs["address"] = "address is too short"
	} else if digitsOnlyRe.MatchString(address) {
		errs["address"] = "invalid address"
	}

	if strings.TrimSpace(form.PostalCode) == "" {
		errs["postal_code"] = "required"
	}
	if strings.TrimSpace(form.City) == "" {
		errs["city"] = "required"
	}

	// 備考は任意、150文字まで
	if utf8.RuneCountInString(form.Note) > 150 {
		errs["note"] = "note is too long"
	}

	return errs
}
