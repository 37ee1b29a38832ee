package keywords

// defaultGroups is the built-in synonym table. Order matters: completion
// labels and tie-breaks follow registration order.
var defaultGroups = []Group{
	{FunctionDecl, ClassKeyword, []string{"function", "func", "fun", "def", "method", "procedure", "proc", "fn", "sub", "subroutine"}},
	{EndFunction, ClassKeyword, []string{"endfunction", "end function", "endfunc", "endfn", "enddef", "endprocedure", "end procedure", "endsub", "end sub"}},
	{ComponentDecl, ClassKeyword, []string{"component", "class", "struct", "record"}},
	{EndComponent, ClassKeyword, []string{"endcomponent", "end component", "endclass", "end class", "endstruct", "end struct"}},
	{VarDecl, ClassKeyword, []string{"var", "let", "const", "variable", "declare", "set", "dim", "local"}},
	{Return, ClassKeyword, []string{"return", "give back"}},
	{If, ClassKeyword, []string{"if"}},
	{Then, ClassKeyword, []string{"then"}},
	{ElseIf, ClassKeyword, []string{"else if", "elif", "elsif", "elseif", "otherwise if"}},
	{Else, ClassKeyword, []string{"else", "otherwise"}},
	{EndIf, ClassKeyword, []string{"endif", "end if", "fi"}},
	{For, ClassKeyword, []string{"for", "for each", "foreach", "for every", "for all"}},
	{In, ClassKeyword, []string{"in"}},
	{From, ClassKeyword, []string{"from"}},
	{Step, ClassKeyword, []string{"step", "by"}},
	{EndFor, ClassKeyword, []string{"endfor", "end for", "next", "endforeach", "end foreach", "end loop"}},
	{While, ClassKeyword, []string{"while", "repeat while", "loop while", "as long as"}},
	{Do, ClassKeyword, []string{"do", "repeat"}},
	{Until, ClassKeyword, []string{"until"}},
	{EndWhile, ClassKeyword, []string{"endwhile", "end while", "wend"}},
	{End, ClassKeyword, []string{"end"}},
	{Break, ClassKeyword, []string{"break", "exit loop"}},
	{Continue, ClassKeyword, []string{"continue", "skip"}},
	{Output, ClassKeyword, []string{"print", "output", "display", "log", "echo", "write", "show"}},
	{Input, ClassKeyword, []string{"input", "read", "ask"}},

	{Assign, ClassOperator, []string{"to", "becomes", "gets", "=", ":=", "<-", "←"}},
	{Eq, ClassOperator, []string{"equals", "is equal to", "equal to", "is", "=="}},
	{Ne, ClassOperator, []string{"is not equal to", "not equal to", "does not equal", "is not", "!=", "<>", "≠"}},
	{Gt, ClassOperator, []string{"greater than", "is greater than", "more than", "is more than", ">"}},
	{Ge, ClassOperator, []string{"greater than or equal to", "is greater than or equal to", "at least", "is at least", ">=", "≥"}},
	{Lt, ClassOperator, []string{"less than", "is less than", "fewer than", "<"}},
	{Le, ClassOperator, []string{"less than or equal to", "is less than or equal to", "at most", "is at most", "<=", "≤"}},
	{And, ClassOperator, []string{"and", "&&"}},
	{Or, ClassOperator, []string{"or", "||"}},
	{Not, ClassOperator, []string{"not", "!"}},
	{Add, ClassOperator, []string{"plus", "+"}},
	{Sub, ClassOperator, []string{"minus", "-"}},
	{Mul, ClassOperator, []string{"times", "multiplied by", "*"}},
	{Div, ClassOperator, []string{"divided by", "/"}},
	{Mod, ClassOperator, []string{"mod", "modulo", "%"}},
	{Pow, ClassOperator, []string{"to the power of", "^", "**"}},
	{Inc, ClassOperator, []string{"++"}},
	{Dec, ClassOperator, []string{"--"}},

	{True, ClassLiteral, []string{"true", "yes"}},
	{False, ClassLiteral, []string{"false", "no"}},
	{Null, ClassLiteral, []string{"null", "nil", "none", "nothing", "undefined"}},
}

var defaultRegistry = MustNew(defaultGroups)

// Default returns the process-wide built-in registry. It is frozen and safe for concurrent use.
func Default() *Registry {
	return defaultRegistry
}
