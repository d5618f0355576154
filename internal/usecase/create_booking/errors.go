package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrUnknownServiceItem возвращается, когда услуга не найдена в каталоге
	ErrUnknownServiceItem = errors.New("create_booking: unknown service item")

	// ErrTimeConflict возвращается, когда интервал пересекается с бронированием или периодом недоступности
	ErrTimeConflict = errors.New("create_booking: time conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
