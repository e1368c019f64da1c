// Package validate provides explicit guard checks for service inputs.
//
// A Checker collects the first failure per field and turns them into an
// apperr validation error:
//
//	v := validate.New()
//	v.Required("name", in.Name)
//	v.MaxLen("name", in.Name, 255)
//	if err := v.Err(); err != nil {
//	    return dto.Category{}, err
//	}
package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
)

// Checker accumulates field errors. The zero value is not usable; call New.
type Checker struct {
	errs map[string]string
}

func New() *Checker {
	return &Checker{errs: make(map[string]string)}
}

// Fail records msg for field unless the field already failed.
func (c *Checker) Fail(field, format string, args ...any) {
	if _, seen := c.errs[field]; seen {
		return
	}
	c.errs[field] = fmt.Sprintf(format, args...)
}

// Check records msg for field when ok is false.
func (c *Checker) Check(ok bool, field, format string, args ...any) {
	if !ok {
		c.Fail(field, format, args...)
	}
}

func (c *Checker) Required(field, value string) {
	c.Check(strings.TrimSpace(value) != "", field, "The %s field is required.", field)
}

func (c *Checker) RequiredTime(field string, value time.Time) {
	c.Check(!value.IsZero(), field, "The %s field is required.", field)
}

func (c *Checker) MinLen(field, value string, n int) {
	c.Check(utf8.RuneCountInString(value) >= n, field, "The %s must be at least %d characters.", field, n)
}

func (c *Checker) MaxLen(field, value string, n int) {
	c.Check(utf8.RuneCountInString(value) <= n, field, "The %s must not exceed %d characters.", field, n)
}

func (c *Checker) MinInt(field string, value, min int) {
	c.Check(value >= min, field, "The %s must be at least %d.", field, min)
}

func (c *Checker) MinID(field string, value uint) {
	c.Check(value >= 1, field, "The %s must be a valid id.", field)
}

func (c *Checker) RequiredDecimal(field string, value *decimal.Decimal) {
	c.Check(value != nil, field, "The %s field is required.", field)
}

func (c *Checker) RequiredInt(field string, value *int) {
	c.Check(value != nil, field, "The %s field is required.", field)
}

// Digits bounds a decimal to a NUMERIC(whole+scale, scale) column.
func (c *Checker) Digits(field string, value decimal.Decimal, whole, scale int) {
	ok := value.Equal(value.Round(int32(scale))) &&
		value.Abs().LessThan(decimal.New(1, int32(whole)))
	c.Check(ok, field, "The %s must have at most %d integer and %d decimal digits.", field, whole, scale)
}

func (c *Checker) MinDecimal(field string, value, min decimal.Decimal) {
	c.Check(value.GreaterThanOrEqual(min), field, "The %s must be at least %s.", field, min.String())
}

// NotEmpty requires a slice-like collection to have at least one element.
func (c *Checker) NotEmpty(field string, n int) {
	c.Check(n > 0, field, "The %s field must contain at least one item.", field)
}

func (c *Checker) Valid() bool { return len(c.errs) == 0 }

// Errors returns the collected field messages.
func (c *Checker) Errors() map[string]string { return c.errs }

// Err returns nil when every check passed, otherwise an apperr validation error.
func (c *Checker) Err() error {
	if c.Valid() {
		return nil
	}
	return apperr.Validation(c.errs)
}
