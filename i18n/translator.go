// Package i18n renders human messages for hoshi issue codes.
package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":     "value cannot be coerced to the field type",
		"parse_error":      "document is not a valid JSON object",
		"duplicate_key":    "duplicate key",
		"truncated":        "document exceeds the size limit",
		"encode_failure":   "serialization error",
		"schema_violation": "record type cannot be described by a schema",
	},
	"ja": {
		"invalid_type":     "フィールドの型に変換できません",
		"parse_error":      "有効な JSON オブジェクトではありません",
		"duplicate_key":    "キーが重複しています",
		"truncated":        "サイズ上限を超えています",
		"encode_failure":   "シリアライズエラー",
		"schema_violation": "スキーマとして扱えないレコード型です",
	},
	"zh": {
		"invalid_type":     "无法转换为字段类型",
		"parse_error":      "不是有效的 JSON 对象",
		"duplicate_key":    "键重复",
		"truncated":        "超出大小限制",
		"encode_failure":   "序列化错误",
		"schema_violation": "该类型无法生成模式",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if k := data["key"]; k != "" {
		return msg + ": " + k
	}
	return msg
}

type holder struct{ tr Translator }

var current atomic.Value

func init() { current.Store(holder{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en", "ja", "zh").
// Unknown languages fall back to "en".
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	current.Store(holder{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(holder{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().(holder).tr.Message(code, data)
}
