package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	KwProcedure    // Процедура
	KwEndProcedure // КонецПроцедуры
	KwFunction     // Функция
	KwEndFunction  // КонецФункции
	KwVar          // Перем
	KwExport       // Экспорт
	KwVal          // Знач
	KwIf           // Если
	KwThen         // Тогда
	KwElsIf        // ИначеЕсли
	KwElse         // Иначе
	KwEndIf        // КонецЕсли
	KwWhile        // Пока
	KwFor          // Для
	KwEach         // Каждого
	KwIn           // Из
	KwTo           // По
	KwDo           // Цикл
	KwEndDo        // КонецЦикла
	KwTry          // Попытка
	KwExcept       // Исключение
	KwEndTry       // КонецПопытки
	KwReturn       // Возврат
	KwRaise        // ВызватьИсключение
	KwGoto         // Перейти
	KwBreak        // Прервать
	KwContinue     // Продолжить
	KwNew          // Новый
	KwExecute      // Выполнить
	KwAddHandler   // ДобавитьОбработчик
	KwRemoveHandler
	KwAsync // Асинх
	KwAwait // Ждать
	KwAnd   // И
	KwOr    // ИЛИ
	KwNot   // НЕ
	KwTrue  // Истина
	KwFalse // Ложь
	KwUndefined
	KwNull

	// NumberLit represents a numeric literal (123, 1.5).
	NumberLit
	// StringLit represents a string literal, including '|' continuation lines.
	StringLit
	// DateLit represents a date literal ('20240101').
	DateLit

	// Annotation is a compilation directive: &НаКлиенте.
	Annotation
	// Label is '~Name' in a label declaration or a Goto target.
	Label

	PreprocRegion    // #Область
	PreprocEndRegion // #КонецОбласти
	PreprocIf        // #Если
	PreprocElsIf     // #ИначеЕсли
	PreprocElse      // #Иначе
	PreprocEndIf     // #КонецЕсли
	PreprocUse       // #Использовать (OneScript)
	PreprocOther     // прочие #-инструкции

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Assign    // = (и сравнение)
	NotEq     // <>
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	Comma     // ,
	Semicolon // ;
	Dot       // .
	Colon     // :
	Question  // ?
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	KwProcedure: "Процедура", KwEndProcedure: "КонецПроцедуры", KwFunction: "Функция",
	KwEndFunction: "КонецФункции", KwVar: "Перем", KwExport: "Экспорт", KwVal: "Знач",
	KwIf: "Если", KwThen: "Тогда", KwElsIf: "ИначеЕсли", KwElse: "Иначе", KwEndIf: "КонецЕсли",
	KwWhile: "Пока", KwFor: "Для", KwEach: "Каждого", KwIn: "Из", KwTo: "По", KwDo: "Цикл",
	KwEndDo: "КонецЦикла", KwTry: "Попытка", KwExcept: "Исключение", KwEndTry: "КонецПопытки",
	KwReturn: "Возврат", KwRaise: "ВызватьИсключение", KwGoto: "Перейти", KwBreak: "Прервать",
	KwContinue: "Продолжить", KwNew: "Новый", KwExecute: "Выполнить",
	KwAddHandler: "ДобавитьОбработчик", KwRemoveHandler: "УдалитьОбработчик",
	KwAsync: "Асинх", KwAwait: "Ждать", KwAnd: "И", KwOr: "ИЛИ", KwNot: "НЕ",
	KwTrue: "Истина", KwFalse: "Ложь", KwUndefined: "Неопределено", KwNull: "NULL",
	NumberLit: "NumberLit", StringLit: "StringLit", DateLit: "DateLit",
	Annotation: "Annotation", Label: "Label",
	PreprocRegion: "#Область", PreprocEndRegion: "#КонецОбласти", PreprocIf: "#Если",
	PreprocElsIf: "#ИначеЕсли", PreprocElse: "#Иначе", PreprocEndIf: "#КонецЕсли",
	PreprocUse: "#Использовать", PreprocOther: "#",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=", NotEq: "<>",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", LParen: "(", RParen: ")", LBracket: "[",
	RBracket: "]", Comma: ",", Semicolon: ";", Dot: ".", Colon: ":", Question: "?",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a language keyword.
func (k Kind) IsKeyword() bool {
	return k >= KwProcedure && k <= KwNull
}

// IsPreproc reports whether k is a preprocessor instruction.
func (k Kind) IsPreproc() bool {
	return k >= PreprocRegion && k <= PreprocOther
}
