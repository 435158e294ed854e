package constants

// DeliveryStatus is the canonical per-record status in a run result.
type DeliveryStatus string

// Stable values (store these exact strings in the audit trail).
const (
	StatusNoEmailFound DeliveryStatus = "NO_EMAIL_FOUND" // roster matched but no contact address
	StatusReadyToSend  DeliveryStatus = "READY_TO_SEND"  // fields extracted, roster matched, address present
	StatusSent         DeliveryStatus = "SENT"           // delivery succeeded
	StatusNotSent      DeliveryStatus = "NOT_SENT"       // retries exhausted
)

func (s DeliveryStatus) String() string { return string(s) }

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case StatusNoEmailFound, StatusReadyToSend, StatusSent, StatusNotSent:
		return true
	}
	return false
}

// IsTerminalDelivery reports whether the dispatcher already finished with this record.
// A record never regresses out of a terminal delivery status.
func (s DeliveryStatus) IsTerminalDelivery() bool {
	return s == StatusSent || s == StatusNotSent
}
