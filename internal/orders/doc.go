// Package orders — клиент внешнего Remote Execution Service.
//
// Сервис выполняет команды на runners асинхронно: createOrder ставит
// работу в очередь и сразу возвращает идентификатор, getOrder читает
// текущее состояние. Push-уведомлений о завершении нет — завершение
// наблюдается только опросом (см. internal/engine).
//
// Пакет — чистая I/O-граница без бизнес-логики.
package orders
