// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go            — Handler с DI (репозитории, engine, logger)
//   - routes.go             — регистрация маршрутов
//   - middleware.go         — middleware (logging, recovery)
//   - response.go           — унифицированные JSON-ответы и обработка ошибок
//   - dto.go                — Data Transfer Objects (request/response)
//   - deployment_handler.go — обработчики для /deployments
//
// API — интерфейс presentation-слоя: чтение снапшотов deployment и его
// шагов безопасно в любой момент прогона; UI сам перечитывает состояние
// со своей периодичностью (push-уведомлений нет).
package api
