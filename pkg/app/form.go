package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
)

// ValidError 单个参数校验错误
type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 将全部校验错误合并为一个字符串
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ",")
}

// MapsToString 输出 key: message 形式的错误串
func (v ValidErrors) MapsToString() string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Key+": "+err.Message)
	}
	return strings.Join(errs, ",")
}

// BindAndValid binds request parameters and validates them,
// translating validator messages by the request language.
// BindAndValid 绑定请求参数并校验，校验消息按请求语言翻译
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors
	err := c.ShouldBind(v)
	if err != nil {
		verrs, ok := err.(val.ValidationErrors)
		if !ok {
			errs = append(errs, &ValidError{
				Key:     "body",
				Message: err.Error(),
			})
			return false, errs
		}

		trans, hasTrans := c.Value("trans").(ut.Translator)
		if !hasTrans {
			for _, fe := range verrs {
				errs = append(errs, &ValidError{
					Key:     fe.Field(),
					Message: fe.Error(),
				})
			}
			return false, errs
		}

		for key, value := range verrs.Translate(trans) {
			errs = append(errs, &ValidError{
				Key:     key,
				Message: value,
			})
		}

		return false, errs
	}

	return true, nil
}
