// Package fuzztests houses Go fuzz harnesses for the crust front end
// (source -> lexer -> parser -> resolve -> eval). They guard against panics,
// hangs and broken span invariants on arbitrary inputs.
//
// Назначение: загрузить байты в FileSet и прогнать их через лексер, парсер
// и весь pipeline с ограничением по времени.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
