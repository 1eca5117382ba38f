package convert

import (
	"github.com/bytedance/sonic"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// StructAssign copies same-named fields from source to target
// StructAssign 将同名字段从 source 复制到 target
// target 必须为指针，复制失败返回错误
func StructAssign(target interface{}, source interface{}) error {
	if err := copier.Copy(target, source); err != nil {
		return errors.Wrap(err, "struct assign failed")
	}
	return nil
}

// StructToMap converts a struct to a map keyed by its json tags
// StructToMap 按 json tag 将结构体转换为 map
// 用于构造部分更新的字段集合，nil 指针字段不会出现在结果中
func StructToMap(source interface{}) (map[string]interface{}, error) {
	data, err := sonic.Marshal(source)
	if err != nil {
		return nil, errors.Wrap(err, "marshal struct failed")
	}

	out := make(map[string]interface{})
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "unmarshal struct failed")
	}
	return out, nil
}
