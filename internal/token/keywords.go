package token

import (
	"unicode"

	"golang.org/x/text/cases"
)

// допустимые написания: сначала русские, затем английские
var keywordForms = map[Kind][]string{
	KwProcedure:     {"Процедура", "Procedure"},
	KwEndProcedure:  {"КонецПроцедуры", "EndProcedure"},
	KwFunction:      {"Функция", "Function"},
	KwEndFunction:   {"КонецФункции", "EndFunction"},
	KwVar:           {"Перем", "Var"},
	KwExport:        {"Экспорт", "Export"},
	KwVal:           {"Знач", "Val"},
	KwIf:            {"Если", "If"},
	KwThen:          {"Тогда", "Then"},
	KwElsIf:         {"ИначеЕсли", "ElsIf"},
	KwElse:          {"Иначе", "Else"},
	KwEndIf:         {"КонецЕсли", "EndIf"},
	KwWhile:         {"Пока", "While"},
	KwFor:           {"Для", "For"},
	KwEach:          {"Каждого", "каждого", "Each", "each"},
	KwIn:            {"Из", "In"},
	KwTo:            {"По", "To"},
	KwDo:            {"Цикл", "Do"},
	KwEndDo:         {"КонецЦикла", "EndDo"},
	KwTry:           {"Попытка", "Try"},
	KwExcept:        {"Исключение", "Except"},
	KwEndTry:        {"КонецПопытки", "EndTry"},
	KwReturn:        {"Возврат", "Return"},
	KwRaise:         {"ВызватьИсключение", "Raise"},
	KwGoto:          {"Перейти", "Goto"},
	KwBreak:         {"Прервать", "Break"},
	KwContinue:      {"Продолжить", "Continue"},
	KwNew:           {"Новый", "New"},
	KwExecute:       {"Выполнить", "Execute"},
	KwAddHandler:    {"ДобавитьОбработчик", "AddHandler"},
	KwRemoveHandler: {"УдалитьОбработчик", "RemoveHandler"},
	KwAsync:         {"Асинх", "Async"},
	KwAwait:         {"Ждать", "Await"},
	KwAnd:           {"И", "And", "AND"},
	KwOr:            {"Или", "ИЛИ", "Or", "OR"},
	KwNot:           {"Не", "НЕ", "Not", "NOT"},
	KwTrue:          {"Истина", "True"},
	KwFalse:         {"Ложь", "False"},
	KwUndefined:     {"Неопределено", "Undefined"},
	KwNull:          {"NULL", "Null"},

	PreprocRegion:    {"Область", "Region"},
	PreprocEndRegion: {"КонецОбласти", "EndRegion"},
	PreprocIf:        {"Если", "If"},
	PreprocElsIf:     {"ИначеЕсли", "ElsIf"},
	PreprocElse:      {"Иначе", "Else"},
	PreprocEndIf:     {"КонецЕсли", "EndIf"},
	PreprocUse:       {"Использовать", "Use"},
}

var (
	keywords = buildLookup(KwProcedure, KwNull)
	preprocs = buildLookup(PreprocRegion, PreprocUse)
)

func buildLookup(from, to Kind) map[string]Kind {
	out := make(map[string]Kind)
	for k := from; k <= to; k++ {
		for _, form := range keywordForms[k] {
			out[Fold(form)] = k
		}
	}
	return out
}

// Fold приводит идентификатор к регистронезависимой форме.
// Caser не потокобезопасен, поэтому создаётся на каждый вызов.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистронезависимые и двуязычные.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[Fold(ident)]
	return k, ok
}

// LookupPreproc maps the word after '#' to a preprocessor kind.
func LookupPreproc(word string) Kind {
	if k, ok := preprocs[Fold(word)]; ok {
		return k
	}
	return PreprocOther
}

// CanonicalForms returns the accepted spellings of a keyword.
func CanonicalForms(k Kind) []string {
	return keywordForms[k]
}

// IsCanonical reports whether text is an accepted spelling of k.
func IsCanonical(k Kind, text string) bool {
	forms, ok := keywordForms[k]
	if !ok {
		return true
	}
	for _, f := range forms {
		if f == text {
			return true
		}
	}
	return false
}

// CanonicalSpelling returns the accepted spelling of k closest to text:
// the same alphabet, upper-case form when text is upper-case and such a
// form exists. Returns "" for kinds without spelling rules.
func CanonicalSpelling(k Kind, text string) string {
	forms := keywordForms[k]
	if len(forms) == 0 {
		return ""
	}
	cyr := hasCyrillic(text)
	upper := isUpper(text)
	best := ""
	for _, f := range forms {
		if hasCyrillic(f) != cyr {
			continue
		}
		if best == "" {
			best = f
		}
		if upper && isUpper(f) && len([]rune(f)) > 1 {
			return f
		}
	}
	if best == "" {
		return forms[0]
	}
	return best
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

func isUpper(s string) bool {
	seen := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			seen = true
		}
	}
	return seen
}
