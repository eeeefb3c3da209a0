package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "type_mismatch":
			return "型が一致しません"
		case "range_violation":
			return "値が範囲外です"
		case "pattern_mismatch":
			return "パターンに一致しません"
		case "enum_mismatch":
			return "許可された値ではありません"
		case "missing_field":
			return "必須フィールドが不足しています"
		case "unexpected_field":
			return "未知のフィールドです"
		case "length_violation":
			return "長さが範囲外です"
		case "no_alternative":
			return "どの候補にも一致しません"
		case "ambiguous_match":
			return "複数の候補に一致しました"
		case "negated_violated":
			return "否定された制約に一致しました"
		case "depth_exceeded":
			return "再帰の深さ上限を超えました"
		case "unknown_reference":
			return "未知のスキーマ参照です"
		}
	default: // "en"
		switch code {
		case "type_mismatch":
			if data != nil && data["expected"] != "" {
				return "expected " + data["expected"]
			}
			return "type mismatch"
		case "range_violation":
			return "value out of range"
		case "pattern_mismatch":
			if data != nil && data["pattern"] != "" {
				return "does not match pattern " + data["pattern"]
			}
			return "pattern mismatch"
		case "enum_mismatch":
			return "not an allowed value"
		case "missing_field":
			if data != nil && data["field"] != "" {
				return "required field " + data["field"] + " missing"
			}
			return "required field missing"
		case "unexpected_field":
			if data != nil && data["field"] != "" {
				return "unexpected field " + data["field"]
			}
			return "unexpected field"
		case "length_violation":
			return "length out of range"
		case "no_alternative":
			return "no alternative matched"
		case "ambiguous_match":
			return "more than one alternative matched"
		case "negated_violated":
			return "negated constraint matched"
		case "depth_exceeded":
			return "max recursion depth exceeded"
		case "unknown_reference":
			if data != nil && data["name"] != "" {
				return "unknown schema reference " + data["name"]
			}
			return "unknown schema reference"
		}
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
