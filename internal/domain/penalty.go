package domain

import "time"

// PenaltyStatus represents the settlement status of a cancellation penalty
type PenaltyStatus string

const (
	PenaltyPending PenaltyStatus = "pending"
	PenaltyPaid    PenaltyStatus = "paid"
	PenaltyWaived  PenaltyStatus = "waived"
)

// Penalty создаётся как побочный эффект платной отмены записи клиентом.
// Ровно один штраф на одну отмену. Клиент привязывается по id, если он
// известен, иначе - по телефону из снапшота записи.
type Penalty struct {
	ID            int64
	Reference     string // uuid для сверки с платёжными системами
	MerchantID    int64
	ClientID      *int64
	ClientPhone   *string
	AppointmentID int64
	Amount        int64 // минорные единицы
	Reason        string
	Status        PenaltyStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
