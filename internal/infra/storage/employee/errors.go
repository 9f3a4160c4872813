package employee

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("employee.repository: employee not found")

	// ErrDayOffNotFound возвращается, когда выходной не найден
	ErrDayOffNotFound = errors.New("employee.repository: day off not found")

	// ErrDayOffExists возвращается при повторной регистрации выходного
	// на ту же дату (unique constraint на employee_id, day_off_date)
	ErrDayOffExists = errors.New("employee.repository: day off already registered for this date")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("employee.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("employee.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("employee.repository: failed to scan row")
)
