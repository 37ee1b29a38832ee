// Package fuzztests houses Go fuzz harnesses for the pseudocode front end
// (source -> lexer -> scope -> parser -> classifier -> completion). The
// harnesses guard against panics, hangs and broken span invariants on
// arbitrary input.
//
// Назначение: прогонять произвольные байты через лексер, детектор стилей,
// парсер и анализ целиком.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
