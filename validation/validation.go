// Package validation 提供配置校验和中文错误翻译
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

var (
	validate      *validator.Validate // 全局验证器实例
	trans         ut.Translator       // 全局翻译器实例
	initValidator sync.Once           // 确保只初始化一次
)

// Rule 定义自定义验证规则
type Rule struct {
	Validation   validator.Func // 验证函数
	ErrorMessage string         // 默认错误消息，{0}为字段名，{1}为参数
}

// Initialize 初始化验证器并注册自定义规则
func Initialize() {
	initValidator.Do(func() {
		validate = validator.New()

		// 使用json标签作为字段名
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// 设置中文翻译器
		zhTrans := zh.New()
		translator := ut.New(zhTrans, zhTrans)
		trans, _ = translator.GetTranslator("zh")
		_ = zh_translations.RegisterDefaultTranslations(validate, trans)

		for tag, rule := range rules {
			if err := validate.RegisterValidation(tag, rule.Validation); err != nil {
				panic("注册验证规则失败: " + err.Error())
			}
			registerTranslation(tag, rule.ErrorMessage)
		}
	})
}

// registerTranslation 注册简单翻译
func registerTranslation(tag string, message string) {
	_ = validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field(), fe.Param())
		return t
	})
}

// Validate 执行结构体验证
func Validate(s interface{}) error {
	Initialize()
	return validate.Struct(s)
}

// ValidateVar 验证单个变量
func ValidateVar(field interface{}, tag string) error {
	Initialize()
	return validate.Var(field, tag)
}

// TranslateError 翻译验证错误
func TranslateError(err error) []string {
	if err == nil {
		return nil
	}
	Initialize()

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Translate(trans))
	}
	return messages
}
