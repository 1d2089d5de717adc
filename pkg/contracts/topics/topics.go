package topics

const (
	// Bets
	BetClosed = "bet_closed"
	BetPaid   = "bet_paid"

	// DLQs
	PayoutDLQ = "bet_payout_dlq"
)
