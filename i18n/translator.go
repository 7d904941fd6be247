package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "field" or "value").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"parse_error":     "parse error",
		"schema_mismatch": "schema mismatch",
		"unknown_key":     "unknown key",
		"invalid_format":  "invalid format",
		"io_error":        "i/o error",
		"too_deep":        "nesting too deep",
		"truncated":       "truncated",
		"marshal_error":   "cannot marshal value",
	},
	"ja": {
		"parse_error":     "解析エラー",
		"schema_mismatch": "スキーマと一致しません",
		"unknown_key":     "未知のキーです",
		"invalid_format":  "形式が不正です",
		"io_error":        "入出力エラー",
		"too_deep":        "ネストが深すぎます",
		"truncated":       "打ち切られました",
		"marshal_error":   "値を出力できません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	if msg, ok := messages[t.lang][code]; ok {
		if f := data["field"]; f != "" {
			return msg + " (" + f + ")"
		}
		return msg
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
