// Package repository provides database access for follow-up tasks.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"outreach_backend/internal/tasks/domain"
	"outreach_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskNotFoundMsg = "task not found"

// Fetch limits for sweep batches. Overdue tasks are executed, upcoming tasks
// are only checked for replies, so more of them fit in a batch.
const (
	OverdueBatchLimit  = 20
	UpcomingBatchLimit = 40
)

// Repository provides database operations for tasks.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new tasks repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const taskSelect = `
	SELECT
		t.id, t.user_id, t.company_id, t.partner_id,
		COALESCE(t.kind, ''), t.upcoming_task, t.trigger_date, t.created_at,
		COALESCE(t.message_text, ''), t.context,
		c.id, c.name, c.website, c.contact_person, c.email, c.linkedin,
		p.id, p.name, p.email
	FROM tasks t
	LEFT JOIN companies c ON c.id = t.company_id
	LEFT JOIN partners p ON p.id = t.partner_id`

// FetchOverdue returns tasks that are due, oldest first.
func (r *Repository) FetchOverdue(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Task, error) {
	query := taskSelect + `
	WHERE t.user_id = $1 AND t.trigger_date <= $2
	ORDER BY t.trigger_date ASC
	LIMIT $3`

	return r.queryTasks(ctx, query, userID, now, OverdueBatchLimit)
}

// FetchUpcoming returns tasks that are not yet due, soonest first.
func (r *Repository) FetchUpcoming(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Task, error) {
	query := taskSelect + `
	WHERE t.user_id = $1 AND t.trigger_date > $2
	ORDER BY t.trigger_date ASC
	LIMIT $3`

	return r.queryTasks(ctx, query, userID, now, UpcomingBatchLimit)
}

// FetchForCompany returns all tasks targeting a company, soonest first.
func (r *Repository) FetchForCompany(ctx context.Context, companyID uuid.UUID) ([]domain.Task, error) {
	query := taskSelect + `
	WHERE t.company_id = $1
	ORDER BY t.trigger_date ASC`

	return r.queryTasks(ctx, query, companyID)
}

func (r *Repository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0, OverdueBatchLimit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		task           domain.Task
		rawContext     []byte
		companyID      *uuid.UUID
		companyName    *string
		companyWebsite *string
		companyContact *string
		companyEmail   *string
		companyLinked  *string
		partnerID      *uuid.UUID
		partnerName    *string
		partnerEmail   *string
	)

	err := row.Scan(
		&task.ID, &task.UserID, &task.CompanyID, &task.PartnerID,
		&task.Kind, &task.Label, &task.TriggerDate, &task.CreatedAt,
		&task.MessageText, &rawContext,
		&companyID, &companyName, &companyWebsite, &companyContact, &companyEmail, &companyLinked,
		&partnerID, &partnerName, &partnerEmail,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("scan task: %w", err)
	}

	task.Context = domain.ParseContext(rawContext)

	if companyID != nil {
		task.Company = &domain.Company{
			ID:            *companyID,
			Name:          deref(companyName),
			Website:       deref(companyWebsite),
			ContactPerson: deref(companyContact),
			Email:         deref(companyEmail),
			LinkedIn:      deref(companyLinked),
		}
	}
	if partnerID != nil {
		task.Partner = &domain.Partner{
			ID:    *partnerID,
			Name:  deref(partnerName),
			Email: deref(partnerEmail),
		}
	}
	return task, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// Insert persists a batch of tasks and returns the stored rows.
func (r *Repository) Insert(ctx context.Context, tasks []domain.Task) ([]domain.Task, error) {
	inserted := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		rawContext, err := json.Marshal(task.Context)
		if err != nil {
			return nil, fmt.Errorf("marshal task context: %w", err)
		}

		query := `
			INSERT INTO tasks (user_id, company_id, partner_id, kind, upcoming_task, trigger_date, message_text, context)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`

		stored := task
		err = r.pool.QueryRow(ctx, query,
			task.UserID, task.CompanyID, task.PartnerID,
			string(task.Kind), task.Label, task.TriggerDate, task.MessageText, rawContext,
		).Scan(&stored.ID, &stored.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert task: %w", err)
		}
		inserted = append(inserted, stored)
	}
	return inserted, nil
}

// Delete removes a task and reports whether a row was deleted. A missing row
// is not an error: another sweep may have completed the task first.
func (r *Repository) Delete(ctx context.Context, taskID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Get fetches a single task by id.
func (r *Repository) Get(ctx context.Context, taskID uuid.UUID) (domain.Task, error) {
	query := taskSelect + ` WHERE t.id = $1`
	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, apperr.NotFound(taskNotFoundMsg)
		}
		return domain.Task{}, err
	}
	return task, nil
}
