package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/spec-kit/support-desk/internal/domain"
)

type gormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository returns a gorm-backed implementation used with the sqlite driver.
func NewGormTicketRepository(db *gorm.DB) TicketRepository {
	return &gormTicketRepository{db: db}
}

func (r *gormTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	rec := ticketRecord{
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		UserID:      ticket.UserID,
		AssignedTo:  ticket.AssignedTo,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return translate(err)
	}
	ticket.ID = rec.ID
	return nil
}

func (r *gormTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	var rec ticketRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	ticket, err := fromTicketRecord(rec)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *gormTicketRepository) GetView(ctx context.Context, id int64) (*domain.TicketView, error) {
	var rows []ticketViewRow
	if err := r.viewQuery(ctx).Where("t.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	view, err := fromTicketViewRow(rows[0])
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *gormTicketRepository) ListViews(ctx context.Context, filter TicketFilter) ([]domain.TicketView, error) {
	query := r.viewQuery(ctx)
	if filter.OwnerID != nil {
		query = query.Where("t.user_id = ?", *filter.OwnerID)
	}

	var rows []ticketViewRow
	if err := query.Order("t.created_at DESC").Order("t.id DESC").Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	views := make([]domain.TicketView, 0, len(rows))
	for _, row := range rows {
		view, err := fromTicketViewRow(row)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (r *gormTicketRepository) Update(ctx context.Context, id int64, changes domain.TicketChanges, updatedAt time.Time) error {
	values := map[string]any{"updated_at": updatedAt}
	if changes.Status != nil {
		values["status"] = string(*changes.Status)
	}
	if changes.Priority != nil {
		values["priority"] = string(*changes.Priority)
	}
	if changes.Assignment.Set {
		values["assigned_to"] = changes.Assignment.UserID
	}

	res := r.db.WithContext(ctx).Model(&ticketRecord{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormTicketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	var rows []statusCountRow
	err := r.db.WithContext(ctx).Model(&ticketRecord{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	counts := make(map[domain.TicketStatus]int64, len(rows))
	for _, row := range rows {
		counts[domain.TicketStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *gormTicketRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ticketRecord{}).Count(&count).Error
	return count, translate(err)
}

func (r *gormTicketRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("tickets AS t").
		Select(`t.id, t.title, t.description, t.status, t.priority, t.user_id, t.assigned_to,
                t.created_at, t.updated_at, u.full_name AS user_name, u.email AS user_email,
                a.full_name AS assigned_name`).
		Joins("JOIN users u ON u.id = t.user_id").
		Joins("LEFT JOIN users a ON a.id = t.assigned_to")
}

func fromTicketRecord(rec ticketRecord) (domain.Ticket, error) {
	ticket := domain.Ticket{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		UserID:      rec.UserID,
		AssignedTo:  rec.AssignedTo,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if err := setEnums(&ticket, rec.Status, rec.Priority); err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

func fromTicketViewRow(row ticketViewRow) (domain.TicketView, error) {
	ticket, err := fromTicketRecord(ticketRecord{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      row.Status,
		Priority:    row.Priority,
		UserID:      row.UserID,
		AssignedTo:  row.AssignedTo,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	})
	if err != nil {
		return domain.TicketView{}, err
	}
	return domain.TicketView{
		Ticket:       ticket,
		UserName:     row.UserName,
		UserEmail:    row.UserEmail,
		AssignedName: row.AssignedName,
	}, nil
}
