package lexer

import (
	"bslcheck/internal/diag"
	"bslcheck/internal/source"
)

// maxTokenLength ограничивает длину одного токена; после превышения
// лексер сообщает об ошибке и перематывает файл до конца.
const maxTokenLength = 1 << 20

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	diag.Emit(lx.opts.Reporter, diag.Diagnostic{Severity: diag.SevError, Code: code, Primary: sp, Message: msg})
}
