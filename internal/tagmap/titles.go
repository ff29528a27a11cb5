package tagmap

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Supported page languages.
const (
	LangEnglish  = "en"
	LangChinese  = "zh"
	LangJapanese = "ja"
)

// Languages lists the languages folder titles are available in.
var Languages = []string{LangEnglish, LangChinese, LangJapanese}

// folderTitles holds localized display titles keyed by normalized folder segment.
var folderTitles = map[string]map[string]string{
	// AI model surface
	"models":        {LangEnglish: "Models", LangChinese: "模型", LangJapanese: "モデル"},
	"list":          {LangEnglish: "List Models", LangChinese: "列出模型", LangJapanese: "モデル一覧"},
	"chat":          {LangEnglish: "Chat", LangChinese: "聊天", LangJapanese: "チャット"},
	"openai":        {LangEnglish: "OpenAI Format", LangChinese: "原生OpenAI格式", LangJapanese: "OpenAI形式"},
	"completions":   {LangEnglish: "Completions", LangChinese: "补全", LangJapanese: "補完"},
	"images":        {LangEnglish: "Images", LangChinese: "图像", LangJapanese: "画像"},
	"qwen":          {LangEnglish: "Qwen Format", LangChinese: "通义千问格式", LangJapanese: "Qwen形式"},
	"gemini":        {LangEnglish: "Gemini Format", LangChinese: "Gemini格式", LangJapanese: "Gemini形式"},
	"claude":        {LangEnglish: "Claude Format", LangChinese: "Claude格式", LangJapanese: "Claude形式"},
	"videos":        {LangEnglish: "Videos", LangChinese: "视频", LangJapanese: "動画"},
	"sora":          {LangEnglish: "Sora Format", LangChinese: "Sora格式", LangJapanese: "Sora形式"},
	"kling":         {LangEnglish: "Kling Format", LangChinese: "可灵格式", LangJapanese: "可灵形式"},
	"jimeng":        {LangEnglish: "Jimeng Format", LangChinese: "即梦格式", LangJapanese: "Jimeng形式"},
	"audio":         {LangEnglish: "Audio", LangChinese: "音频", LangJapanese: "音声"},
	"realtime":      {LangEnglish: "Realtime", LangChinese: "实时语音", LangJapanese: "リアルタイム"},
	"embeddings":    {LangEnglish: "Embeddings", LangChinese: "嵌入", LangJapanese: "埋め込み"},
	"rerank":        {LangEnglish: "Rerank", LangChinese: "重排序", LangJapanese: "リランク"},
	"moderations":   {LangEnglish: "Moderations", LangChinese: "审查", LangJapanese: "モデレーション"},
	"unimplemented": {LangEnglish: "Unimplemented", LangChinese: "未实现", LangJapanese: "未実装"},
	"fine-tuning":   {LangEnglish: "Fine-tuning", LangChinese: "微调", LangJapanese: "ファインチューニング"},
	"files":         {LangEnglish: "Files", LangChinese: "文件", LangJapanese: "ファイル"},

	// Management surface
	"system":                {LangEnglish: "System", LangChinese: "系统", LangJapanese: "システム"},
	"system-settings":       {LangEnglish: "System Settings", LangChinese: "系统设置", LangJapanese: "システム設定"},
	"user-auth":             {LangEnglish: "User Authentication", LangChinese: "用户登陆注册", LangJapanese: "ユーザー認証"},
	"user-management":       {LangEnglish: "User Management", LangChinese: "用户管理", LangJapanese: "ユーザー管理"},
	"two-factor-auth":       {LangEnglish: "Two-Factor Authentication", LangChinese: "两步验证", LangJapanese: "二要素認証"},
	"security-verification": {LangEnglish: "Security Verification", LangChinese: "安全验证", LangJapanese: "セキュリティ検証"},
	"oauth":                 {LangEnglish: "OAuth", LangChinese: "OAuth", LangJapanese: "OAuth"},
	"channel-management":    {LangEnglish: "Channel Management", LangChinese: "渠道管理", LangJapanese: "チャネル管理"},
	"model-management":      {LangEnglish: "Model Management", LangChinese: "模型管理", LangJapanese: "モデル管理"},
	"token-management":      {LangEnglish: "Token Management", LangChinese: "令牌管理", LangJapanese: "トークン管理"},
	"redemption":            {LangEnglish: "Redemption", LangChinese: "兑换码", LangJapanese: "引き換えコード"},
	"payment":               {LangEnglish: "Payment", LangChinese: "充值", LangJapanese: "支払い"},
	"logs":                  {LangEnglish: "Logs", LangChinese: "日志", LangJapanese: "ログ"},
	"statistics":            {LangEnglish: "Statistics", LangChinese: "数据统计", LangJapanese: "統計"},
	"groups":                {LangEnglish: "Groups", LangChinese: "分组", LangJapanese: "グループ"},
	"tasks":                 {LangEnglish: "Tasks", LangChinese: "任务", LangJapanese: "タスク"},
	"vendors":               {LangEnglish: "Vendors", LangChinese: "供应商", LangJapanese: "ベンダー"},
}

// DisplayTitle resolves a folder title for navigation: the localized title,
// then the English one, then the segment title-cased with hyphens as spaces.
// Segments that are not plain ASCII (unmapped source tags) are returned as-is.
// Unknown ASCII folders are title-cased rather than shown as raw ids.
func DisplayTitle(folder, lang string) string {
	if byLang, ok := folderTitles[folder]; ok {
		if title, ok := byLang[lang]; ok {
			return title
		}
		if title, ok := byLang[LangEnglish]; ok {
			return title
		}
	}
	if !isASCII(folder) {
		return folder
	}
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(folder, "-", " "))
}

// SupportedLanguage reports whether lang is one of Languages.
func SupportedLanguage(lang string) bool {
	return slices.Contains(Languages, lang)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
