// Package engine управляет выполнением deployments.
//
// Engine отвечает за:
//   - Запуск deployment (READY или перезапуск FAILED с первого шага)
//   - Строго последовательное выполнение шагов по step_order
//   - Отправку каждого шага в Remote Execution Service (order)
//   - Опрос order с фиксированным интервалом до финального статуса
//   - Остановку на первом упавшем шаге
//   - Финализацию deployment (APPLIED/FAILED) через Aggregate
//
// Engine — единственный писатель статусов deployment и шагов во время
// прогона; presentation-слой читает снапшоты через репозитории.
//
// Известное ограничение: таймаута на order нет — если внешний сервис
// никогда не завершит order, опрос продолжается до остановки движка.
package engine
