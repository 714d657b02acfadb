package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional values to embed in the message ("min", "max", "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":   "invalid type",
		"required":       "required property missing",
		"unknown_key":    "unknown key",
		"duplicate_key":  "duplicate key",
		"too_small":      "must be >= {min}",
		"too_big":        "must be <= {max}",
		"too_short":      "must contain at least {min} character(s)",
		"too_long":       "must contain at most {max} character(s)",
		"too_few_items":  "must contain at least {min} item(s)",
		"too_many_items": "must contain at most {max} item(s)",
		"not_integer":    "expected integer",
		"invalid_format": "invalid {format}",
		"custom":         "check failed",
		"parse_error":    "parse error",
		"truncated":      "truncated",
	},
	"ja": {
		"invalid_type":   "型が不正です",
		"required":       "必須プロパティが不足しています",
		"unknown_key":    "未知のキーです",
		"duplicate_key":  "キーが重複しています",
		"too_small":      "{min} 以上である必要があります",
		"too_big":        "{max} 以下である必要があります",
		"too_short":      "{min} 文字以上である必要があります",
		"too_long":       "{max} 文字以下である必要があります",
		"too_few_items":  "{min} 個以上の要素が必要です",
		"too_many_items": "{max} 個以下の要素である必要があります",
		"not_integer":    "整数である必要があります",
		"invalid_format": "{format} の形式が不正です",
		"custom":         "検証に失敗しました",
		"parse_error":    "解析エラー",
		"truncated":      "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }
