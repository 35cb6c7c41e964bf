package schemas

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mmdatafocus/debt_gateway/utils"
	"github.com/shopspring/decimal"
)

var (
	alnumHyphenRegex = regexp.MustCompile(`^[A-Za-z0-9-]*$`)
	numericRegex     = regexp.MustCompile(`^[0-9]*$`)
	clientNameRegex  = regexp.MustCompile(`^[A-Za-z0-9 .]*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := Configure(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterGinValidations installs the contract rules on gin's binding engine
// so ShouldBindJSON reports the same violations as Validate.
func RegisterGinValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Configure(v)
}

// Configure reports field names by their JSON key, lets decimals be checked as
// strings and registers the custom tags.
func Configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	rules := map[string]validator.Func{
		"alnum_hyphen": matches(alnumHyphenRegex),
		"numeric_str":  matches(numericRegex),
		"client_name":  matches(clientNameRegex),
		"ddmmyyyy":     parsesAs(utils.ContractDateLayout),
		"hhmmss":       parsesAs(utils.ContractTimeLayout),
		"maxdigits":    maxDigits,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a request or response against its contract tags.
func Validate(obj any) error {
	return validate.Struct(obj)
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func parsesAs(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}

// maxDigits bounds the length of an amount once the decimal point is dropped.
func maxDigits(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utils.CountAmountDigits(fl.Field().String()) <= limit
}
