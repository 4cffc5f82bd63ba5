package locales

// MessagesZhCN 中文消息
var MessagesZhCN = map[string]string{
	// 通用
	"common.success":       "成功",
	"common.health_status": "健康",

	// 设置页面
	"page.title":              "系统设置",
	"page.subtitle":           "应用配置",
	"page.save":               "保存设置",
	"page.empty":              "暂无可用设置",
	"page.default":            "默认值",
	"page.language":           "语言",
	"page.field_types":        "字段类型",
	"field.enabled":           "启用",
	"field.array_placeholder": "输入以逗号分隔的值",
	"field.array_hint":        "多个值请用逗号分隔",
	"field.json_hint":         "请输入 JSON 对象",

	// 描述
	"setting.description.mail":  "邮件相关配置",
	"setting.description.api":   "API 配置",
	"setting.description.cache": "缓存配置",

	// 提示
	"notice.updated":  "设置更新成功",
	"notice.failed":   "部分设置保存失败：{{.Keys}}",
	"notice.degraded": "以下设置的值与类型不符，已按文本保存：{{.Keys}}",
	"notice.imported": "已导入 {{.Count}} 项设置",

	// 错误
	"error.unauthorized":      "需要认证",
	"error.invalid_auth":      "认证密钥无效",
	"error.invalid_json":      "无效的 JSON 请求体",
	"error.unknown_setting":   "未知设置：{{.Key}}",
	"error.no_settings":       "未提交任何设置",
	"error.invalid_format":    "不支持的快照格式：{{.Format}}",
	"error.invalid_snapshot":  "无效的快照文件",
	"error.import_busy":       "已有导入任务正在进行",
	"error.store_unavailable": "设置存储不可用",
}
