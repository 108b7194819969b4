package domain

// Stats aggregates ticket and user counts for the admin dashboard.
type Stats struct {
	TicketsByStatus map[TicketStatus]int64
	TotalUsers      int64
	TotalTickets    int64
}
