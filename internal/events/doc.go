// Package events публикует события жизненного цикла deployments в RabbitMQ.
//
// События (deployment.started, step.finished, deployment.finished)
// предназначены внешним потребителям — аудит, нотификации. Публикация
// fire-and-forget: ошибка публикации логируется и не влияет на прогон.
//
// UI-контракт остаётся pull-only: presentation-слой читает снапшоты
// через API, события завершения ему не доставляются.
package events
