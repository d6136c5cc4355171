package flow

import "bslcheck/internal/ast"

// AnyExit accepts every Возврат and ВызватьИсключение; used for procedures.
func AnyExit(_ *ast.Builder, st *ast.Stmt) bool {
	return st.Kind == ast.StmtReturn || st.Kind == ast.StmtRaise
}

// ValueExit accepts 'Возврат <значение>' and ВызватьИсключение; used for functions.
func ValueExit(_ *ast.Builder, st *ast.Stmt) bool {
	switch st.Kind {
	case ast.StmtRaise:
		return true
	case ast.StmtReturn:
		return !st.Expr.Empty()
	}
	return false
}

// ExitFor picks the exit property of a method.
func ExitFor(m *ast.Method) ExitFunc {
	if m != nil && m.IsFunction {
		return ValueExit
	}
	return AnyExit
}
