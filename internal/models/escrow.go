package models

import (
	"time"

	"gorm.io/gorm"

	"escrowd/internal/utils"
)

type EscrowStatus string

const (
	EscrowStatusPending  EscrowStatus = "PENDING"
	EscrowStatusHeld     EscrowStatus = "HELD"
	EscrowStatusReleased EscrowStatus = "RELEASED"
	EscrowStatusFailed   EscrowStatus = "FAILED"
)

type PayerType string

const (
	PayerTypeBusiness   PayerType = "business"
	PayerTypeIndividual PayerType = "individual"
)

// Escrow представляет средства, удержанные по сделке между плательщиком
// и получателем до окончания клирингового периода.
// Суммы хранятся в минимальных единицах валюты (центах);
// всегда Amount = PlatformFee + PayeeAmount.
type Escrow struct {
	ID                    string       `gorm:"primaryKey;size:21" json:"id"`
	OrderID               string       `gorm:"size:64;not null;index" json:"orderID"`
	PayerID               string       `gorm:"size:64;not null" json:"payerID"`
	PayeeID               string       `gorm:"size:64;not null;index" json:"payeeID"`
	Amount                int64        `gorm:"not null" json:"amount"`
	PlatformFee           int64        `gorm:"not null" json:"platformFee"`
	PayeeAmount           int64        `gorm:"not null" json:"payeeAmount"`
	Currency              string       `gorm:"size:3;not null" json:"currency"`
	PayerType             PayerType    `gorm:"type:varchar(20);not null" json:"payerType"`
	Status                EscrowStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ClearingDurationDays  int          `gorm:"not null" json:"clearingDurationDays"`
	ClearingEndsAt        *time.Time   `json:"clearingEndsAt"`
	HeldAt                *time.Time   `json:"heldAt"`
	AcceptedAt            *time.Time   `json:"acceptedAt"`
	ReleasedAt            *time.Time   `json:"releasedAt"`
	PayoutID              *string      `gorm:"size:64" json:"payoutID"`
	PreviousStatus        EscrowStatus `gorm:"type:varchar(20)" json:"previousStatus"`
	ReleasedAutomatically bool         `gorm:"not null;default:false" json:"releasedAutomatically"`
	FailureReason         *string      `gorm:"type:text" json:"failureReason,omitempty"`
	CreatedAt             time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt             time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (e *Escrow) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID, err = utils.GenerateNanoID()
	}
	return
}
