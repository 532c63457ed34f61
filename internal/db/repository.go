package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlc "github.com/Joseda-hg/lazydiary/internal/db/sqlc"
	"github.com/Joseda-hg/lazydiary/internal/journal"
	"github.com/Joseda-hg/lazydiary/internal/model"
)

// Tx is the store bound to one transaction. It implements
// journal.Repository.
type Tx struct {
	q   *sqlc.Queries
	now func() time.Time
}

var _ journal.Repository = (*Tx)(nil)

func (t *Tx) GetDiary(ctx context.Context, id int64) (model.Diary, error) {
	row, err := t.q.GetDiary(ctx, id)
	if err != nil {
		return model.Diary{}, notFound(err, "diary", id)
	}
	return mapDiary(row), nil
}

func (t *Tx) GetPage(ctx context.Context, id int64) (model.Page, error) {
	row, err := t.q.GetPage(ctx, id)
	if err != nil {
		return model.Page{}, notFound(err, "page", id)
	}
	return mapPage(row)
}

func (t *Tx) GetPageByDate(ctx context.Context, diaryID int64, date time.Time) (model.Page, error) {
	day := model.FormatDate(date)
	row, err := t.q.GetPageByDate(ctx, sqlc.GetPageByDateParams{DiaryID: diaryID, PageDate: day})
	if err != nil {
		return model.Page{}, notFound(err, "page", fmt.Sprintf("diary=%d date=%s", diaryID, day))
	}
	return mapPage(row)
}

func (t *Tx) CreatePage(ctx context.Context, diaryID int64, date time.Time) (model.Page, error) {
	row, err := t.q.CreatePage(ctx, sqlc.CreatePageParams{DiaryID: diaryID, PageDate: model.FormatDate(date)})
	if err != nil {
		return model.Page{}, constraintError(err)
	}
	return mapPage(row)
}

func (t *Tx) LatestPageDateBefore(ctx context.Context, diaryID int64, date time.Time) (time.Time, bool, error) {
	value, err := t.q.LatestPageDateBefore(ctx, sqlc.LatestPageDateBeforeParams{DiaryID: diaryID, PageDate: model.FormatDate(date)})
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	parsed, err := parsePageDate(value)
	if err != nil {
		return time.Time{}, false, err
	}
	return parsed, true, nil
}

func (t *Tx) ListPagesOnDate(ctx context.Context, diaryID int64, date time.Time) ([]model.Page, error) {
	rows, err := t.q.ListPagesOnDate(ctx, sqlc.ListPagesOnDateParams{DiaryID: diaryID, PageDate: model.FormatDate(date)})
	if err != nil {
		return nil, err
	}
	return mapPages(rows)
}

func (t *Tx) GetInstance(ctx context.Context, id int64) (model.TaskInstance, error) {
	row, err := t.q.GetInstance(ctx, id)
	if err != nil {
		return model.TaskInstance{}, notFound(err, "task instance", id)
	}
	return mapInstance(row), nil
}

func (t *Tx) ListInstancesByPage(ctx context.Context, pageID int64) ([]model.TaskInstance, error) {
	rows, err := t.q.ListInstancesByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return mapInstances(rows), nil
}

func (t *Tx) ListOpenInstancesByPage(ctx context.Context, pageID int64) ([]model.TaskInstance, error) {
	rows, err := t.q.ListOpenInstancesByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return mapInstances(rows), nil
}

func (t *Tx) FindInstanceByLineageOnPage(ctx context.Context, pageID, lineageID int64) (model.TaskInstance, bool, error) {
	row, err := t.q.FindInstanceByLineageOnPage(ctx, sqlc.FindInstanceByLineageOnPageParams{PageID: pageID, LineageID: lineageID})
	if errors.Is(err, sql.ErrNoRows) {
		return model.TaskInstance{}, false, nil
	}
	if err != nil {
		return model.TaskInstance{}, false, err
	}
	return mapInstance(row), true, nil
}

func (t *Tx) CreateInstance(ctx context.Context, instance model.TaskInstance) (model.TaskInstance, error) {
	row, err := t.q.CreateInstance(ctx, sqlc.CreateInstanceParams{
		PageID:    instance.PageID,
		LineageID: instance.LineageID,
		Title:     instance.Title,
		Status:    instance.Status,
	})
	if err != nil {
		return model.TaskInstance{}, constraintError(err)
	}
	return mapInstance(row), nil
}

func (t *Tx) UpdateInstanceStatus(ctx context.Context, id int64, status string) (model.TaskInstance, error) {
	row, err := t.q.UpdateInstanceStatus(ctx, sqlc.UpdateInstanceStatusParams{Status: status, ID: id})
	if err != nil {
		return model.TaskInstance{}, notFound(err, "task instance", id)
	}
	return mapInstance(row), nil
}

func (t *Tx) UpdateInstanceTitle(ctx context.Context, id int64, title string) (model.TaskInstance, error) {
	row, err := t.q.UpdateInstanceTitle(ctx, sqlc.UpdateInstanceTitleParams{Title: title, ID: id})
	if err != nil {
		return model.TaskInstance{}, notFound(err, "task instance", id)
	}
	return mapInstance(row), nil
}

func (t *Tx) ListHistoryByLineage(ctx context.Context, lineageID int64) ([]model.HistoryEntry, error) {
	rows, err := t.q.ListHistoryByLineage(ctx, lineageID)
	if err != nil {
		return nil, err
	}

	history := make([]model.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := mapInstanceRow(row.ID, row.PageID, row.LineageID, row.PageDate, row.Title, row.Status, row.CreatedAt)
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, nil
}

func (t *Tx) createLineage(ctx context.Context, title, status string) (model.TaskLineage, error) {
	result, err := t.q.CreateLineage(ctx, sqlc.CreateLineageParams{
		Title:     title,
		Status:    status,
		CreatedAt: t.now(),
	})
	if err != nil {
		return model.TaskLineage{}, constraintError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.TaskLineage{}, err
	}
	row, err := t.q.GetLineage(ctx, id)
	if err != nil {
		return model.TaskLineage{}, notFound(err, "task lineage", id)
	}
	return mapLineage(row), nil
}

func mapDiary(row sqlc.Diary) model.Diary {
	return model.Diary{ID: row.ID, OwnerName: row.OwnerName, CreatedAt: row.CreatedAt}
}

func mapNote(row sqlc.Note) model.Note {
	return model.Note{ID: row.ID, DiaryID: row.DiaryID, Description: row.Description, UpdatedAt: row.UpdatedAt}
}

func mapPage(row sqlc.Page) (model.Page, error) {
	date, err := parsePageDate(row.PageDate)
	if err != nil {
		return model.Page{}, err
	}
	return model.Page{ID: row.ID, DiaryID: row.DiaryID, Date: date}, nil
}

func mapPages(rows []sqlc.Page) ([]model.Page, error) {
	pages := make([]model.Page, 0, len(rows))
	for _, row := range rows {
		page, err := mapPage(row)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func mapLineage(row sqlc.TaskLineage) model.TaskLineage {
	return model.TaskLineage{ID: row.ID, Title: row.Title, Status: row.Status, CreatedAt: row.CreatedAt}
}

func mapInstance(row sqlc.TaskInstance) model.TaskInstance {
	return model.TaskInstance{
		ID:        row.ID,
		PageID:    row.PageID,
		LineageID: row.LineageID,
		Title:     row.Title,
		Status:    row.Status,
	}
}

func mapInstances(rows []sqlc.TaskInstance) []model.TaskInstance {
	instances := make([]model.TaskInstance, 0, len(rows))
	for _, row := range rows {
		instances = append(instances, mapInstance(row))
	}
	return instances
}

func mapInstanceRow(id, pageID, lineageID int64, pageDate, title, status string, lineageCreatedAt time.Time) (model.InstanceRow, error) {
	date, err := parsePageDate(pageDate)
	if err != nil {
		return model.InstanceRow{}, err
	}
	return model.InstanceRow{
		InstanceID:       id,
		PageID:           pageID,
		LineageID:        lineageID,
		PageDate:         date,
		Title:            title,
		Status:           status,
		LineageCreatedAt: lineageCreatedAt,
	}, nil
}

func parsePageDate(value string) (time.Time, error) {
	parsed, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse page date %q: %w", value, err)
	}
	return parsed, nil
}
