package tagmap

import "slices"

// Table names referenced from configuration.
const (
	TableAIModel    = "ai-model"
	TableManagement = "management"
)

// AI model (relay) API tags.
var aiModelEntries = map[string]string{
	// Parent segments
	"模型（Models）":          "models",
	"聊天（Chat）":            "chat",
	"补全（Completions）":     "completions",
	"图像（Images）":          "images",
	"视频（Videos）":          "videos",
	"音频（Audio）":           "audio",
	"实时语音（Realtime）":      "realtime",
	"嵌入（Embeddings）":      "embeddings",
	"重排序（Rerank）":         "rerank",
	"审查（Moderations）":     "moderations",
	"未实现（Unimplemented）":  "unimplemented",

	// Child segments
	"列出模型":          "list",
	"原生OpenAI格式":    "openai",
	"通义千问OpenAI格式":  "qwen",
	"原生Gemini格式":    "gemini",
	"原生Claude格式":    "claude",
	"Sora格式":        "sora",
	"可灵格式":          "kling",
	"即梦格式":          "jimeng",
	"微调（Fine-tuning）": "fine-tuning",
	"文件（Files）":       "files",

	// Full paths. Normalize resolves these segment-wise; they are kept so
	// Check can prove both spellings agree.
	"模型（Models）/列出模型":                  "models/list",
	"聊天（Chat）/原生OpenAI格式":              "chat/openai",
	"聊天（Chat）/原生Gemini格式":              "chat/gemini",
	"聊天（Chat）/原生Claude格式":              "chat/claude",
	"图像（Images）/原生OpenAI格式":            "images/openai",
	"图像（Images）/通义千问OpenAI格式":          "images/qwen",
	"图像（Images）/原生Gemini格式":            "images/gemini",
	"视频（Videos）/Sora格式":                "videos/sora",
	"视频（Videos）/可灵格式":                  "videos/kling",
	"视频（Videos）/即梦格式":                  "videos/jimeng",
	"音频（Audio）/原生OpenAI格式":             "audio/openai",
	"未实现（Unimplemented）/微调（Fine-tuning）": "unimplemented/fine-tuning",
	"未实现（Unimplemented）/文件（Files）":       "unimplemented/files",
}

// Management API tags.
var managementEntries = map[string]string{
	"系统":     "system",
	"系统设置":   "system-settings",
	"用户登陆注册": "user-auth",
	"用户管理":   "user-management",
	"两步验证":   "two-factor-auth",
	"安全验证":   "security-verification",
	"OAuth":  "oauth",
	"渠道管理":   "channel-management",
	"模型管理":   "model-management",
	"令牌管理":   "token-management",
	"兑换码":    "redemption",
	"充值":     "payment",
	"日志":     "logs",
	"数据统计":   "statistics",
	"分组":     "groups",
	"任务":     "tasks",
	"供应商":    "vendors",
}

var (
	// AIModel is the canonical table for the AI model surface.
	AIModel = NewTable(TableAIModel, aiModelEntries)
	// Management is the canonical table for the management surface.
	Management = NewTable(TableManagement, managementEntries)

	combined = Merge("combined", AIModel, Management)

	registry = map[string]*Table{
		TableAIModel:    AIModel,
		TableManagement: Management,
	}
)

// Get returns a built-in table by name.
func Get(name string) (*Table, bool) {
	t, ok := registry[name]
	return t, ok
}

// Names lists the built-in table names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Combined merges every built-in table. Management entries win on duplicate keys.
func Combined() *Table {
	return combined
}

// FolderName normalizes tag through the combined table.
func FolderName(tag string) string {
	return Normalize(tag, combined)
}
