package validator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"zetrix-gateway/pkg/ledger"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Init 初始化校验器 (validate tag)，并向 gin 的引擎 (binding tag) 注册同样的自定义规则
func Init() {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("ztx_address", isAddress)
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("ztx_address", isAddress)
		}
	})
}

func isAddress(fl validator.FieldLevel) bool {
	return ledger.IsAddress(fl.Field().String())
}

// Struct 校验结构体的 validate tag
func Struct(v any) error {
	Init()
	return validate.Struct(v)
}

// GetErrorMsg translates validation errors into user-friendly messages
func GetErrorMsg(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var errMsgs []string
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			param := e.Param()

			switch tag {
			case "required", "required_if":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不能为空", field))
			case "ztx_address":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不是合法的 Zetrix 地址", field))
			case "min":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 长度至少为 %s", field, param))
			case "max":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 长度不能超过 %s", field, param))
			case "oneof":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是 [%s] 之一", field, param))
			default:
				errMsgs = append(errMsgs, fmt.Sprintf("%s 校验失败 (%s)", field, tag))
			}
		}
		return strings.Join(errMsgs, "; ")
	}
	return "请求参数错误"
}
