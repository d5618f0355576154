package booking

import "errors"

var (
	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активным бронированием (exclusion constraint)
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrUnknownServiceItem возвращается, когда позиция ссылается на несуществующую услугу
	ErrUnknownServiceItem = errors.New("booking.repository: unknown service item")

	// ErrNoRowsAffected возвращается, когда условное обновление не затронуло ни одной строки
	ErrNoRowsAffected = errors.New("booking.repository: no rows affected")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("booking.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
