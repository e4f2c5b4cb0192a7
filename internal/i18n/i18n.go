package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleEN = "en-US"
	LocaleZH = "zh-CN"
	LocaleBN = "bn-BD"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

var supportedLocales = []string{LocaleEN, LocaleZH, LocaleBN}

// ResolveLocale 从请求中解析语言（lang 参数优先，其次 Accept-Language）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := NormalizeLocale(c.Query("lang")); lang != "" {
		return lang
	}
	if c.Request == nil {
		return DefaultLocale
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if lang := NormalizeLocale(tag); lang != "" {
			return lang
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标签，未知语言返回空字符串
func NormalizeLocale(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return ""
	}
	for _, locale := range supportedLocales {
		if strings.EqualFold(tag, locale) {
			return locale
		}
	}
	switch {
	case strings.HasPrefix(tag, "zh"):
		return LocaleZH
	case strings.HasPrefix(tag, "bn"):
		return LocaleBN
	case strings.HasPrefix(tag, "en"):
		return LocaleEN
	}
	return ""
}

// T 翻译文案，缺失时依次回退到默认语言与 key 本身
func T(locale, key string) string {
	if bundle, ok := messages[locale]; ok {
		if msg, ok := bundle[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化文案
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
