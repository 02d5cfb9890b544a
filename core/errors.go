package core

import (
	"fmt"
	"strings"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 校验类错误携带足够的自纠错信息（字段名、非法值、允许值全集）
//
// 使用场景：
//   - 请求校验错误：MISSING_FIELD, INVALID_TYPE, OUT_OF_RANGE, UNKNOWN_CATEGORY
//   - 内部错误：TRANSFORM_FAILURE, MODEL_FAILURE, UNAVAILABLE
type DomainError struct {
	Code    string   // 错误代码（如 "MISSING_FIELD", "UNKNOWN_CATEGORY"）
	Module  string   // 模块名称（如 "feature", "model", "rules"）
	Field   string   // 出错字段名（校验类错误使用）
	Value   string   // 非法值的字符串表示（校验类错误使用）
	Allowed []string // 允许的取值全集（UNKNOWN_CATEGORY 使用）
	Cause   error    // 底层原因（内部错误使用）
}

func (e *DomainError) Error() string {
	switch e.Code {
	case ErrorCodeMissingField:
		return fmt.Sprintf("missing required field: %s", e.Field)
	case ErrorCodeInvalidType:
		return fmt.Sprintf("invalid value for field %s: %q", e.Field, e.Value)
	case ErrorCodeOutOfRange:
		return fmt.Sprintf("field %s out of range: %s", e.Field, e.Value)
	case ErrorCodeUnknownCategory:
		return fmt.Sprintf("invalid %s value: %q. Allowed values: [%s]",
			e.Field, e.Value, strings.Join(e.Allowed, ", "))
	default:
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", strings.ToLower(e.Code), e.Cause)
		}
		return strings.ToLower(e.Code)
	}
}

func (e *DomainError) Unwrap() error { return e.Cause }

// 错误代码常量
const (
	// 校验类错误（由调用方输入导致，transport 映射为 400）
	ErrorCodeMissingField    = "MISSING_FIELD"    // 缺少必填字段
	ErrorCodeInvalidType     = "INVALID_TYPE"     // 字段无法解析为期望类型
	ErrorCodeOutOfRange      = "OUT_OF_RANGE"     // 数值超出领域约束
	ErrorCodeUnknownCategory = "UNKNOWN_CATEGORY" // 类别值不在编码器词表内

	// 内部错误（transport 映射为 500）
	ErrorCodeTransformFailure = "TRANSFORM_FAILURE" // 特征变换失败
	ErrorCodeModelFailure     = "MODEL_FAILURE"     // 模型推理失败
	ErrorCodeUnavailable      = "UNAVAILABLE"       // 依赖服务不可用
)

// 模块名称常量
const (
	ModuleFeature = "feature" // 特征/请求处理模块
	ModuleModel   = "model"   // 模型工件模块
	ModuleRules   = "rules"   // 规则打分模块
	ModuleStore   = "store"   // 存储模块
	ModuleService = "service" // 服务模块
)

// MissingField 构造缺少必填字段错误。
func MissingField(module, field string) *DomainError {
	return &DomainError{Code: ErrorCodeMissingField, Module: module, Field: field}
}

// InvalidType 构造字段类型错误。
func InvalidType(module, field, value string) *DomainError {
	return &DomainError{Code: ErrorCodeInvalidType, Module: module, Field: field, Value: value}
}

// OutOfRange 构造数值越界错误。
func OutOfRange(module, field string, value float64) *DomainError {
	return &DomainError{
		Code: ErrorCodeOutOfRange, Module: module,
		Field: field, Value: fmt.Sprintf("%v", value),
	}
}

// UnknownCategory 构造未知类别错误。允许值全集必须完整返回给调用方，
// 禁止静默回退到默认编码（那是已知的正确性隐患，不是可复刻的行为）。
func UnknownCategory(module, field, value string, allowed []string) *DomainError {
	return &DomainError{
		Code: ErrorCodeUnknownCategory, Module: module,
		Field: field, Value: value, Allowed: allowed,
	}
}

// TransformFailure 构造特征变换失败错误。
func TransformFailure(module string, cause error) *DomainError {
	return &DomainError{Code: ErrorCodeTransformFailure, Module: module, Cause: cause}
}

// ModelFailure 构造模型推理失败错误。
func ModelFailure(module string, cause error) *DomainError {
	return &DomainError{Code: ErrorCodeModelFailure, Module: module, Cause: cause}
}

// Unavailable 构造依赖服务不可用错误。
func Unavailable(module string, cause error) *DomainError {
	return &DomainError{Code: ErrorCodeUnavailable, Module: module, Cause: cause}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// IsValidation 检查错误是否为校验类错误（客户端可自纠错）。
// 推理/变换失败是确定性的，重试没有意义，所以不存在重试类别。
func IsValidation(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr == nil {
		return false
	}
	switch domainErr.Code {
	case ErrorCodeMissingField, ErrorCodeInvalidType,
		ErrorCodeOutOfRange, ErrorCodeUnknownCategory:
		return true
	}
	return false
}

// IsUnknownCategory 检查错误是否为 UNKNOWN_CATEGORY。
func IsUnknownCategory(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Code == ErrorCodeUnknownCategory
}
