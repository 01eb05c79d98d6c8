// Package fuzztests houses Go fuzz harnesses for the expression pipeline
// (source -> lexer -> parser -> elaborator). They smoke test robustness:
// no panics, no hangs and structurally sound results on arbitrary input.
//
// Назначение: прогонять произвольные байты через лексер, парсер и
// элаборатор с фиксированной таблицей символов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
