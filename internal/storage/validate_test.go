package storage

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAddressValidate(t *testing.T) {
	cases := []struct {
		name  string
		addr  Address
		kind  error
		field string
	}{
		{"ok", Address{Street: "Lenina", City: "Moscow", State: "MO", Number: 7}, nil, ""},
		{"zero number", Address{Street: "Lenina", City: "Moscow", State: "MO", Number: 0}, nil, ""},
		{"negative number", Address{Street: "Lenina", City: "Moscow", State: "MO", Number: -1}, ErrInvalidField, "number"},
		{"empty street", Address{City: "Moscow", State: "MO", Number: 1}, ErrRequiredField, "street"},
		{"blank city", Address{Street: "Lenina", City: "  ", State: "MO", Number: 1}, ErrRequiredField, "city"},
		{"empty state", Address{Street: "Lenina", City: "Moscow", Number: 1}, ErrRequiredField, "state"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.addr.Validate()
			assertValidation(t, err, tc.kind, tc.field)
		})
	}
}

func TestCenterValidatePhone(t *testing.T) {
	valid := []string{"+71234567890", "71234567890", "81234567890", "771234567890", "+7+71234567890", "+781234567890"}
	for _, p := range valid {
		c := Center{Name: "Salon", Phone: p}
		require.NoError(t, c.Validate(), p)
	}
	invalid := []string{"1234567890", "+71234567890123", "+7123456789", "", "+7 123 456 78 90", "91234567890", "+81234567890"}
	for _, p := range invalid {
		c := Center{Name: "Salon", Phone: p}
		assertValidation(t, c.Validate(), ErrInvalidFormat, "phone")
	}
}

// 尾随换行不视为合法号码：$ 只匹配输入末尾。
func TestCenterValidatePhoneRejectsTrailingNewline(t *testing.T) {
	require.False(t, PhonePattern.MatchString("+71234567890\n"))
	c := Center{Name: "Salon", Phone: "+71234567890\n"}
	assertValidation(t, c.Validate(), ErrInvalidFormat, "phone")
}

func TestCenterValidateName(t *testing.T) {
	c := Center{Phone: "+71234567890"}
	assertValidation(t, c.Validate(), ErrRequiredField, "name")
}

func TestServiceValidate(t *testing.T) {
	require.NoError(t, (&Service{Name: "Manicure", Category: "Nails"}).Validate())
	assertValidation(t, (&Service{Category: "Nails"}).Validate(), ErrRequiredField, "name")
	assertValidation(t, (&Service{Name: "Manicure"}).Validate(), ErrRequiredField, "category")
}

func TestCenterServiceValidate(t *testing.T) {
	ok := CenterService{CenterID: uuid.New(), ServiceID: uuid.New(), Description: "weekdays only"}
	require.NoError(t, ok.Validate())

	noCenter := ok
	noCenter.CenterID = uuid.Nil
	assertValidation(t, noCenter.Validate(), ErrRequiredField, "center")

	noService := ok
	noService.ServiceID = uuid.Nil
	assertValidation(t, noService.Validate(), ErrRequiredField, "service")

	noDesc := ok
	noDesc.Description = ""
	assertValidation(t, noDesc.Validate(), ErrRequiredField, "description")
}

func TestCommentValidateMark(t *testing.T) {
	center := uuid.New()
	for _, m := range []float64{1, 4.5, 5} {
		c := Comment{Content: "nice", Mark: m, CenterID: center}
		require.NoError(t, c.Validate(), m)
	}
	for _, m := range []float64{0, 0.99, 5.01, 6, -3} {
		c := Comment{Content: "nice", Mark: m, CenterID: center}
		assertValidation(t, c.Validate(), ErrOutOfRange, "mark")
	}
}

func TestCommentValidateRequired(t *testing.T) {
	assertValidation(t, (&Comment{Mark: 3, CenterID: uuid.New()}).Validate(), ErrRequiredField, "content")
	assertValidation(t, (&Comment{Content: "x", Mark: 3}).Validate(), ErrRequiredField, "center_id")
}

func assertValidation(t *testing.T, err error, kind error, field string) {
	t.Helper()
	if kind == nil {
		require.NoError(t, err)
		return
	}
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, field, ve.Field)
}
