package domain

import (
	"errors"
	"fmt"
	"time"
)

// ActorRole роль инициатора операции.
// Аутентификация и авторизация выполняются выше по стеку,
// сюда роль приходит уже проверенной.
type ActorRole string

const (
	RoleClient   ActorRole = "client"
	RoleEmployee ActorRole = "employee"
	RoleMerchant ActorRole = "merchant"
)

// ParseActorRole валидирует строковое представление роли
func ParseActorRole(s string) (ActorRole, bool) {
	switch ActorRole(s) {
	case RoleClient, RoleEmployee, RoleMerchant:
		return ActorRole(s), true
	default:
		return "", false
	}
}

var (
	// ErrTerminalState возвращается при попытке изменить запись в терминальном статусе
	ErrTerminalState = errors.New("domain: appointment is in a terminal state")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("domain: status transition is not allowed")

	// ErrNoticeTooShort возвращается, когда клиент нарушает минимальный срок
	// отмены/переноса из политики мерчанта
	ErrNoticeTooShort = errors.New("domain: cancellation policy notice period violated")
)

// CanTransition проверяет переход статуса по таблице переходов
func CanTransition(a *Appointment, to AppointmentStatus) error {
	if a.Status.IsTerminal() {
		return fmt.Errorf("%w: status %s is final", ErrTerminalState, a.Status)
	}
	if !a.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	return nil
}

// CanCancel решает, допустима ли отмена записи "сейчас".
// Мерчант и сотрудник могут отменять в любой момент.
// Клиент внутри окна политики: при включённых штрафах отмена разрешена,
// но со штрафом (см. CancellationFee); при выключенных - запрещена.
func CanCancel(a *Appointment, role ActorRole, now time.Time, loc *time.Location) error {
	if a.Status.IsTerminal() {
		return fmt.Errorf("%w: status %s is final", ErrTerminalState, a.Status)
	}

	if role == RoleMerchant || role == RoleEmployee {
		return nil
	}

	if a.CancelFeeEnabled && a.CancelFeeAmount > 0 {
		return nil
	}

	return checkClientNotice(a, now, loc)
}

// CanReschedule решает, допустим ли перенос записи "сейчас".
// Перенос не предполагает штрафа, поэтому для клиента окно политики
// проверяется всегда.
func CanReschedule(a *Appointment, role ActorRole, now time.Time, loc *time.Location) error {
	if a.Status.IsTerminal() {
		return fmt.Errorf("%w: status %s is final", ErrTerminalState, a.Status)
	}

	if role == RoleMerchant || role == RoleEmployee {
		return nil
	}

	return checkClientNotice(a, now, loc)
}

// checkClientNotice проверяет минимальный срок до начала записи
// для клиента. PolicyHours == 0 означает отсутствие ограничений.
func checkClientNotice(a *Appointment, now time.Time, loc *time.Location) error {
	if a.CancelPolicyHours <= 0 {
		return nil
	}

	remaining := a.StartsAt(loc).Sub(now)
	required := time.Duration(a.CancelPolicyHours) * time.Hour

	if remaining < required {
		return fmt.Errorf("%w: requires at least %dh notice, %s remaining",
			ErrNoticeTooShort, a.CancelPolicyHours, remaining.Round(time.Minute))
	}

	return nil
}

// CancellationFee вычисляет штраф за отмену.
// Штраф применяется только к клиентской отмене, когда у мерчанта включены
// штрафы и до начала записи осталось меньше часов политики. Единое правило:
// штраф действует строго по настроенному значению политики, без отдельного
// суточного порога.
func CancellationFee(a *Appointment, role ActorRole, now time.Time, loc *time.Location) int64 {
	if role != RoleClient {
		return 0
	}
	if !a.CancelFeeEnabled || a.CancelFeeAmount <= 0 || a.CancelPolicyHours <= 0 {
		return 0
	}

	remaining := a.StartsAt(loc).Sub(now)
	threshold := time.Duration(a.CancelPolicyHours) * time.Hour

	if remaining < threshold {
		return a.CancelFeeAmount
	}
	return 0
}
