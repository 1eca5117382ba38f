package code

import "net/http"

// 通用状态码
var (
	Success = NewSuss(0, lang{en: "success", zh_cn: "成功"})

	Failed               = NewError(10000, lang{en: "request failed", zh_cn: "请求失败"}).HTTP(http.StatusInternalServerError)
	ErrorServerInternal  = NewError(10001, lang{en: "server internal error", zh_cn: "服务器内部错误"}).HTTP(http.StatusInternalServerError)
	ErrorInvalidParams   = NewError(10002, lang{en: "invalid request parameters", zh_cn: "请求参数错误"}).HTTP(http.StatusBadRequest)
	ErrorNotFoundAPI     = NewError(10003, lang{en: "api not found", zh_cn: "接口不存在"}).HTTP(http.StatusNotFound)
	ErrorTooManyRequests = NewError(10004, lang{en: "too many requests", zh_cn: "请求过于频繁"}).HTTP(http.StatusTooManyRequests)
	ErrorRequestTimeout  = NewError(10005, lang{en: "request timeout", zh_cn: "请求超时"}).HTTP(http.StatusRequestTimeout)
	ErrorDBQuery         = NewError(10006, lang{en: "database query error", zh_cn: "数据库查询错误"}).HTTP(http.StatusInternalServerError)
)

// 认证与权限状态码
var (
	ErrorNotUserAuthToken     = NewError(20001, lang{en: "missing auth token", zh_cn: "缺少用户认证 Token"}).HTTP(http.StatusUnauthorized)
	ErrorInvalidUserAuthToken = NewError(20002, lang{en: "invalid auth token", zh_cn: "用户认证 Token 无效"}).HTTP(http.StatusUnauthorized)
	ErrorTokenGenerate        = NewError(20003, lang{en: "token generate failed", zh_cn: "Token 生成失败"}).HTTP(http.StatusInternalServerError)
	ErrorNoPermission         = NewError(20004, lang{en: "no permission to access this resource", zh_cn: "没有访问该资源的权限"}).HTTP(http.StatusForbidden)
)

// 用户状态码
var (
	ErrorUserRegisterIsDisable  = NewError(21001, lang{en: "user registration is disabled", zh_cn: "用户注册已关闭"}).HTTP(http.StatusForbidden)
	ErrorUserEmailAlreadyExists = NewError(21002, lang{en: "email already registered", zh_cn: "邮箱已被注册"}).HTTP(http.StatusConflict)
	ErrorUserAlreadyExists      = NewError(21003, lang{en: "username already exists", zh_cn: "用户名已存在"}).HTTP(http.StatusConflict)
	ErrorUserPasswordNotMatch   = NewError(21004, lang{en: "passwords do not match", zh_cn: "两次输入的密码不一致"}).HTTP(http.StatusBadRequest)
	ErrorUserUsernameNotValid   = NewError(21005, lang{en: "username format is invalid", zh_cn: "用户名格式不正确"}).HTTP(http.StatusBadRequest)
	ErrorPasswordNotValid       = NewError(21006, lang{en: "password is invalid", zh_cn: "密码不合法"}).HTTP(http.StatusBadRequest)
	ErrorUserRegister           = NewError(21007, lang{en: "user register failed", zh_cn: "用户注册失败"}).HTTP(http.StatusInternalServerError)
	ErrorUserNotFound           = NewError(21008, lang{en: "user not found", zh_cn: "用户不存在"}).HTTP(http.StatusNotFound)
	ErrorUserLoginFailed        = NewError(21009, lang{en: "incorrect credentials or password", zh_cn: "账号或密码错误"}).HTTP(http.StatusUnauthorized)
	ErrorUserChangePassword     = NewError(21010, lang{en: "change password failed", zh_cn: "修改密码失败"}).HTTP(http.StatusInternalServerError)
	ErrorUserOldPasswordInvalid = NewError(21011, lang{en: "old password is incorrect", zh_cn: "旧密码不正确"}).HTTP(http.StatusBadRequest)
)

// 笔记状态码
var (
	ErrorNoteNotFound        = NewError(22001, lang{en: "note not found", zh_cn: "笔记不存在"}).HTTP(http.StatusNotFound)
	ErrorNoteVersionConflict = NewError(22002, lang{en: "note was modified by another request, please refresh and retry", zh_cn: "笔记已被其他请求修改，请刷新后重试"}).HTTP(http.StatusConflict)
	ErrorNoteAlreadyDeleted  = NewError(22003, lang{en: "note is already in trash", zh_cn: "笔记已在回收站中"}).HTTP(http.StatusConflict)
	ErrorNoteNotDeleted      = NewError(22004, lang{en: "note must be moved to trash before permanent deletion", zh_cn: "笔记必须先移入回收站才能永久删除"}).HTTP(http.StatusConflict)
	ErrorNoteCreate          = NewError(22005, lang{en: "note create failed", zh_cn: "笔记创建失败"}).HTTP(http.StatusInternalServerError)
	ErrorNoteUpdate          = NewError(22006, lang{en: "note update failed", zh_cn: "笔记更新失败"}).HTTP(http.StatusInternalServerError)
	ErrorNoteVersionNotFound = NewError(22007, lang{en: "note version not found", zh_cn: "笔记历史版本不存在"}).HTTP(http.StatusNotFound)
)

// 分享状态码
var (
	ErrorShareNotFound  = NewError(23001, lang{en: "shared note not found", zh_cn: "分享的笔记不存在"}).HTTP(http.StatusNotFound)
	ErrorShareExpired   = NewError(23002, lang{en: "share link has expired", zh_cn: "分享链接已过期"}).HTTP(http.StatusGone)
	ErrorShareNotActive = NewError(23003, lang{en: "note is not currently shared", zh_cn: "笔记当前未分享"}).HTTP(http.StatusPreconditionFailed)
	ErrorShareCreate    = NewError(23004, lang{en: "share link create failed", zh_cn: "分享链接创建失败"}).HTTP(http.StatusInternalServerError)
)

// 协作者状态码
var (
	ErrorCollaboratorSelf     = NewError(24001, lang{en: "the author cannot be added as a collaborator", zh_cn: "作者不能添加自己为协作者"}).HTTP(http.StatusConflict)
	ErrorCollaboratorExists   = NewError(24002, lang{en: "user is already a collaborator", zh_cn: "该用户已是协作者"}).HTTP(http.StatusConflict)
	ErrorCollaboratorNotFound = NewError(24003, lang{en: "collaborator not found", zh_cn: "协作者不存在"}).HTTP(http.StatusNotFound)
)

// 标签与分类状态码
var (
	ErrorTagAlreadyExists       = NewError(25001, lang{en: "tag name already exists", zh_cn: "标签名已存在"}).HTTP(http.StatusConflict)
	ErrorTagNotFound            = NewError(25002, lang{en: "tag not found", zh_cn: "标签不存在"}).HTTP(http.StatusNotFound)
	ErrorCategoryNotFound       = NewError(25101, lang{en: "category not found", zh_cn: "分类不存在"}).HTTP(http.StatusNotFound)
	ErrorCategoryParentNotFound = NewError(25102, lang{en: "parent category not found", zh_cn: "父级分类不存在"}).HTTP(http.StatusBadRequest)
	ErrorCategoryCycle          = NewError(25103, lang{en: "category tree contains a cycle", zh_cn: "分类树存在循环引用"}).HTTP(http.StatusConflict)
)
