package domain

// Order — единица выполнения в Remote Execution Service.
//
// Order создаётся при отправке шага и далее только читается:
// владеет им и мутирует его исключительно внешний сервис.
// Идентификатор непрозрачен — формат определяет сервис.
type Order struct {
	// ID — идентификатор order во внешнем сервисе.
	ID string `json:"id"`

	// Status — авторитетный статус выполнения.
	Status OrderStatus `json:"status"`

	// ExitCode — код возврата команды. Заполняется постепенно,
	// но доверяется только при финальном статусе.
	ExitCode *int `json:"exit_code,omitempty"`

	// StdoutTail — хвост stdout.
	StdoutTail string `json:"stdout_tail,omitempty"`

	// StderrTail — хвост stderr.
	StderrTail string `json:"stderr_tail,omitempty"`

	// ErrorMessage — текст ошибки при FAILED.
	ErrorMessage string `json:"error_message,omitempty"`
}

// IsFinished возвращает true, если order завершён.
func (o *Order) IsFinished() bool {
	return o.Status.IsTerminal()
}
