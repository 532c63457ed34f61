package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sqlc "github.com/Joseda-hg/lazydiary/internal/db/sqlc"
	"github.com/Joseda-hg/lazydiary/internal/journal"
	"github.com/Joseda-hg/lazydiary/internal/model"
)

type Store struct {
	DB      *sql.DB
	Queries *sqlc.Queries

	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db, Queries: sqlc.New(db), now: time.Now}
}

// InTx runs fn in one transaction and commits when it returns nil.
func (s *Store) InTx(ctx context.Context, fn func(*Tx) error) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Tx{q: s.Queries.WithTx(tx), now: s.now}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return constraintError(err)
	}
	return nil
}

// RunInTx implements journal.Transactor.
func (s *Store) RunInTx(ctx context.Context, fn func(journal.Repository) error) error {
	return s.InTx(ctx, func(tx *Tx) error {
		return fn(tx)
	})
}

func (s *Store) CreateDiary(ctx context.Context, ownerName string) (model.Diary, error) {
	owner := strings.TrimSpace(ownerName)
	if owner == "" {
		return model.Diary{}, fmt.Errorf("%w: owner name is required", model.ErrValidation)
	}

	var diary model.Diary
	err := s.InTx(ctx, func(tx *Tx) error {
		result, err := tx.q.CreateDiary(ctx, sqlc.CreateDiaryParams{OwnerName: owner, CreatedAt: tx.now()})
		if err != nil {
			return constraintError(err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		diary, err = tx.GetDiary(ctx, id)
		return err
	})
	return diary, err
}

func (s *Store) GetDiary(ctx context.Context, id int64) (model.Diary, error) {
	row, err := s.Queries.GetDiary(ctx, id)
	if err != nil {
		return model.Diary{}, notFound(err, "diary", id)
	}
	return mapDiary(row), nil
}

func (s *Store) ListDiaries(ctx context.Context) ([]model.Diary, error) {
	rows, err := s.Queries.ListDiaries(ctx)
	if err != nil {
		return nil, err
	}

	diaries := make([]model.Diary, 0, len(rows))
	for _, row := range rows {
		diaries = append(diaries, mapDiary(row))
	}
	return diaries, nil
}

func (s *Store) UpdateDiaryOwner(ctx context.Context, id int64, ownerName string) (model.Diary, error) {
	owner := strings.TrimSpace(ownerName)
	if owner == "" {
		return model.Diary{}, fmt.Errorf("%w: owner name is required", model.ErrValidation)
	}

	var diary model.Diary
	err := s.InTx(ctx, func(tx *Tx) error {
		affected, err := tx.q.UpdateDiaryOwner(ctx, sqlc.UpdateDiaryOwnerParams{OwnerName: owner, ID: id})
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("diary %d: %w", id, model.ErrNotFound)
		}
		diary, err = tx.GetDiary(ctx, id)
		return err
	})
	return diary, err
}

// DeleteDiary removes a diary and its note. It fails with model.ErrConflict
// while the diary still has pages.
func (s *Store) DeleteDiary(ctx context.Context, id int64) error {
	return s.InTx(ctx, func(tx *Tx) error {
		affected, err := tx.q.DeleteDiary(ctx, id)
		if err != nil {
			return constraintError(err)
		}
		if affected == 0 {
			return fmt.Errorf("diary %d: %w", id, model.ErrNotFound)
		}
		return nil
	})
}

func (s *Store) UpsertNote(ctx context.Context, diaryID int64, description string) (model.Note, error) {
	var note model.Note
	err := s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.GetDiary(ctx, diaryID); err != nil {
			return err
		}
		if err := tx.q.UpsertNote(ctx, sqlc.UpsertNoteParams{
			DiaryID:     diaryID,
			Description: description,
			UpdatedAt:   tx.now(),
		}); err != nil {
			return constraintError(err)
		}
		row, err := tx.q.GetNoteByDiary(ctx, diaryID)
		if err != nil {
			return notFound(err, "note for diary", diaryID)
		}
		note = mapNote(row)
		return nil
	})
	return note, err
}

func (s *Store) GetNote(ctx context.Context, diaryID int64) (model.Note, error) {
	var note model.Note
	err := s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.GetDiary(ctx, diaryID); err != nil {
			return err
		}
		row, err := tx.q.GetNoteByDiary(ctx, diaryID)
		if err != nil {
			return notFound(err, "note for diary", diaryID)
		}
		note = mapNote(row)
		return nil
	})
	return note, err
}

func (s *Store) GetPageWithTasks(ctx context.Context, pageID int64) (model.PageWithTasks, error) {
	var result model.PageWithTasks
	err := s.InTx(ctx, func(tx *Tx) error {
		page, err := tx.GetPage(ctx, pageID)
		if err != nil {
			return err
		}
		tasks, err := tx.ListInstancesByPage(ctx, pageID)
		if err != nil {
			return err
		}
		result = model.PageWithTasks{Page: page, Tasks: tasks}
		return nil
	})
	return result, err
}

func (s *Store) ListPagesByDiary(ctx context.Context, diaryID int64) ([]model.Page, error) {
	rows, err := s.Queries.ListPagesByDiary(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	return mapPages(rows)
}

func (s *Store) GetPageByDate(ctx context.Context, diaryID int64, date time.Time) (model.Page, error) {
	var page model.Page
	err := s.InTx(ctx, func(tx *Tx) error {
		var err error
		page, err = tx.GetPageByDate(ctx, diaryID, date)
		return err
	})
	return page, err
}

// ListPageTasks lists a page's instances, failing with ErrNotFound when the
// page is missing.
func (s *Store) ListPageTasks(ctx context.Context, pageID int64) ([]model.TaskInstance, error) {
	var tasks []model.TaskInstance
	err := s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.GetPage(ctx, pageID); err != nil {
			return err
		}
		var err error
		tasks, err = tx.ListInstancesByPage(ctx, pageID)
		return err
	})
	return tasks, err
}

// CreateTask enters a new task on a page: one lineage holding the creation
// snapshot and its first instance.
func (s *Store) CreateTask(ctx context.Context, pageID int64, title, status string) (model.TaskLineage, model.TaskInstance, error) {
	title = strings.TrimSpace(title)
	status = strings.TrimSpace(status)
	if title == "" || status == "" {
		return model.TaskLineage{}, model.TaskInstance{}, fmt.Errorf("%w: title and status are required", model.ErrValidation)
	}

	var lineage model.TaskLineage
	var instance model.TaskInstance
	err := s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.GetPage(ctx, pageID); err != nil {
			return err
		}

		var err error
		lineage, err = tx.createLineage(ctx, title, status)
		if err != nil {
			return err
		}
		instance, err = tx.CreateInstance(ctx, model.TaskInstance{
			PageID:    pageID,
			LineageID: lineage.ID,
			Title:     title,
			Status:    status,
		})
		return err
	})
	if err != nil {
		return model.TaskLineage{}, model.TaskInstance{}, err
	}
	return lineage, instance, nil
}

func (s *Store) GetLineage(ctx context.Context, id int64) (model.TaskLineage, error) {
	row, err := s.Queries.GetLineage(ctx, id)
	if err != nil {
		return model.TaskLineage{}, notFound(err, "task lineage", id)
	}
	return mapLineage(row), nil
}

func (s *Store) GetInstance(ctx context.Context, id int64) (model.TaskInstance, error) {
	row, err := s.Queries.GetInstance(ctx, id)
	if err != nil {
		return model.TaskInstance{}, notFound(err, "task instance", id)
	}
	return mapInstance(row), nil
}

// UpdateInstanceTitle renames one instance. The lineage keeps its original
// title.
func (s *Store) UpdateInstanceTitle(ctx context.Context, id int64, title string) (model.TaskInstance, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.TaskInstance{}, fmt.Errorf("%w: title is required", model.ErrValidation)
	}

	var instance model.TaskInstance
	err := s.InTx(ctx, func(tx *Tx) error {
		var err error
		instance, err = tx.UpdateInstanceTitle(ctx, id, title)
		return err
	})
	return instance, err
}

// DeleteInstance removes one instance; its lineage and the lineage's other
// instances stay.
func (s *Store) DeleteInstance(ctx context.Context, id int64) error {
	affected, err := s.Queries.DeleteInstance(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task instance %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// SearchInstances lists instances with their page date and lineage creation
// time, ordered by page id. Empty filter fields match everything.
func (s *Store) SearchInstances(ctx context.Context, filter model.SearchFilter) ([]model.InstanceRow, error) {
	params := sqlc.SearchInstanceRowsParams{Title: strings.TrimSpace(filter.Title)}
	if filter.PageID != nil {
		params.PageID = sql.NullInt64{Int64: *filter.PageID, Valid: true}
	}
	if filter.PageDate != nil {
		params.PageDate = sql.NullString{String: model.FormatDate(*filter.PageDate), Valid: true}
	}

	rows, err := s.Queries.SearchInstanceRows(ctx, params)
	if err != nil {
		return nil, err
	}

	result := make([]model.InstanceRow, 0, len(rows))
	for _, row := range rows {
		entry, err := mapInstanceRow(row.ID, row.PageID, row.LineageID, row.PageDate, row.Title, row.Status, row.CreatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, nil
}
