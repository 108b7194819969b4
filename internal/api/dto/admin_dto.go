package dto

import "github.com/spec-kit/support-desk/internal/domain"

// StatsResponse aggregates counts for the admin dashboard.
type StatsResponse struct {
	TicketsByStatus map[domain.TicketStatus]int64 `json:"tickets_by_status"`
	TotalUsers      int64                         `json:"total_users"`
	TotalTickets    int64                         `json:"total_tickets"`
}

// NewStatsResponse maps domain stats.
func NewStatsResponse(stats domain.Stats) StatsResponse {
	byStatus := stats.TicketsByStatus
	if byStatus == nil {
		byStatus = map[domain.TicketStatus]int64{}
	}
	return StatsResponse{
		TicketsByStatus: byStatus,
		TotalUsers:      stats.TotalUsers,
		TotalTickets:    stats.TotalTickets,
	}
}
