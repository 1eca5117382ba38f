// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	User  UserServiceConfig  // User related config // 用户相关配置
	App   AppServiceConfig   // App related config // 应用相关配置
	Share ShareServiceConfig // Share related config // 分享相关配置
}

// UserServiceConfig user service configuration
// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool // Whether registration is enabled // 注册是否启用
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	SoftDeleteRetentionTime string // Soft delete retention time (e.g., 7d, 24h, 0/empty for no cleanup) // 软删除保留时间（支持格式：7d、24h、0 或空表示不自动清理）
	ExcerptLength           int    // Excerpt length in runes // 摘要长度（字符数）
	ReadingWordsPerMinute   int    // Reading speed for reading time estimate // 阅读时长估算的每分钟词数
}

// ShareServiceConfig share service configuration
// ShareServiceConfig 分享服务配置
type ShareServiceConfig struct {
	DefaultExpiry     string // Default share link lifetime (e.g., 720h, 30d, empty for never) // 分享链接默认有效期（如 720h、30d，空表示永久）
	DefaultPermission string // Default share permission // 默认分享权限
}
