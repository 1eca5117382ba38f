package code

import (
	"fmt"
	"net/http"
)

// Code 统一业务状态码
// 包含业务码、成功标记、双语消息、HTTP 状态码以及可选的数据与详情
type Code struct {
	// 业务状态码
	code int
	// 是否成功
	status bool
	// 双语消息
	Lang lang
	// HTTP 状态码，未设置时为 200
	httpStatus int
	// 附加数据
	data     interface{}
	haveData bool
	// 错误详细信息
	details     []string
	haveDetails bool
}

var codes = map[int]string{}

// NewError 注册一个错误状态码，业务码重复时 panic
func NewError(code int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()

	return &Code{code: code, status: false, Lang: l, httpStatus: http.StatusOK}
}

var sussCodes = map[int]string{}

// NewSuss 注册一个成功状态码
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()

	return &Code{code: code, status: true, Lang: l, httpStatus: http.StatusOK}
}

// HTTP 设置该状态码对应的 HTTP 状态码，注册期使用
func (e *Code) HTTP(status int) *Code {
	e.httpStatus = status
	return e
}

// Clone 创建一个新的 Code 副本
// WithData / WithDetails 在副本上生效，注册的全局对象保持只读
func (e *Code) Clone() *Code {
	return &Code{
		code:       e.code,
		status:     e.status,
		Lang:       e.Lang,
		httpStatus: e.httpStatus,
	}
}

// Error 实现 error 接口，服务层可直接把 *Code 作为领域错误返回
func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

// WithData 返回携带数据的副本
func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

// WithDetails 返回携带详情的副本
func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

// StatusCode 返回 HTTP 状态码
func (e *Code) StatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusOK
	}
	return e.httpStatus
}
