// Package cli содержит команды консольного клиента bosun.
//
// CLI общается с сервером только через HTTP API и намеренно не
// импортирует internal/api: response-типы продублированы строками,
// чтобы клиент не зависел от domain-типов сервера.
package cli
