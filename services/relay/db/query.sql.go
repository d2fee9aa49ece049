package db

import (
	"context"
)

const insertSubmission = `-- name: InsertSubmission :exec
INSERT INTO submission_log (
    id, received_at, client_ip, service_type, email, status, contact_id, payload
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertSubmissionParams struct {
	ID          string
	ReceivedAt  int64
	ClientIp    string
	ServiceType string
	Email       string
	Status      string
	ContactID   string
	Payload     string
}

func (q *Queries) InsertSubmission(ctx context.Context, arg InsertSubmissionParams) error {
	_, err := q.db.ExecContext(ctx, insertSubmission,
		arg.ID,
		arg.ReceivedAt,
		arg.ClientIp,
		arg.ServiceType,
		arg.Email,
		arg.Status,
		arg.ContactID,
		arg.Payload,
	)
	return err
}

const listSubmissions = `-- name: ListSubmissions :many
SELECT id, received_at, client_ip, service_type, email, status, contact_id, payload
FROM submission_log
ORDER BY received_at DESC
LIMIT ?
`

func (q *Queries) ListSubmissions(ctx context.Context, limit int64) ([]SubmissionLog, error) {
	rows, err := q.db.QueryContext(ctx, listSubmissions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SubmissionLog
	for rows.Next() {
		var i SubmissionLog
		if err := rows.Scan(
			&i.ID,
			&i.ReceivedAt,
			&i.ClientIp,
			&i.ServiceType,
			&i.Email,
			&i.Status,
			&i.ContactID,
			&i.Payload,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countSubmissionsByStatus = `-- name: CountSubmissionsByStatus :many
SELECT status, COUNT(*) AS count FROM submission_log
WHERE received_at >= ?
GROUP BY status
ORDER BY status
`

type CountSubmissionsByStatusRow struct {
	Status string
	Count  int64
}

func (q *Queries) CountSubmissionsByStatus(ctx context.Context, receivedAt int64) ([]CountSubmissionsByStatusRow, error) {
	rows, err := q.db.QueryContext(ctx, countSubmissionsByStatus, receivedAt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountSubmissionsByStatusRow
	for rows.Next() {
		var i CountSubmissionsByStatusRow
		if err := rows.Scan(&i.Status, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteSubmissionsBefore = `-- name: DeleteSubmissionsBefore :execrows
DELETE FROM submission_log WHERE received_at < ?
`

func (q *Queries) DeleteSubmissionsBefore(ctx context.Context, receivedAt int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSubmissionsBefore, receivedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
