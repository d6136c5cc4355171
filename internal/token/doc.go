// Package token defines lexical token kinds and trivia for BSL and OneScript.
// Invariants:
//   - Token.Text is the exact source slice the token covers.
//   - Keywords are case-insensitive and bilingual ("Если" / "If"); the lexer
//     folds case only for lookup, Text keeps the original spelling.
//   - Compilation directives (&НаСервере) are single Annotation tokens.
//   - Preprocessor instructions (#Если, #Область, ...) are single Preproc*
//     tokens covering '#' and the instruction word; the rest of the line is
//     lexed as ordinary tokens.
//   - Comments are trivia, never part of the main token stream.
package token
