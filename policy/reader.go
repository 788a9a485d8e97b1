package policy

import "reflect"

// policiesField 提供者上保存策略映射的未导出字段
const policiesField = "policies"

// Read 以只读方式读取提供者的policies字段，返回资源类名到策略类名的映射。
// 提供者为nil、没有该字段或字段不是以字符串为键的映射时返回空映射
func Read(provider interface{}) (result map[string]string) {
	result = make(map[string]string)
	defer func() {
		if recover() != nil {
			result = make(map[string]string)
		}
	}()

	v := reflect.ValueOf(provider)
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return result
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return result
	}

	field, ok := v.Type().FieldByName(policiesField)
	if !ok {
		return result
	}
	fv, err := v.FieldByIndexErr(field.Index)
	if err != nil || fv.Kind() != reflect.Map || fv.Type().Key().Kind() != reflect.String {
		return result
	}

	iter := fv.MapRange()
	for iter.Next() {
		if name := describe(iter.Value()); name != "" {
			result[iter.Key().String()] = name
		}
	}
	return result
}

// describe 返回策略值的类名；字符串值原样返回
func describe(v reflect.Value) string {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return ClassName(v.Type())
}
