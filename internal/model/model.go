package model

import "time"

type Diary struct {
	ID        int64     `json:"id"`
	OwnerName string    `json:"owner_name"`
	CreatedAt time.Time `json:"created_at"`
}

type Note struct {
	ID          int64     `json:"id"`
	DiaryID     int64     `json:"diary_id"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Page is one diary's state for one calendar date. Date never carries a
// time of day.
type Page struct {
	ID      int64     `json:"id"`
	DiaryID int64     `json:"diary_id"`
	Date    time.Time `json:"date"`
}

// TaskLineage is the identity of a task across pages. Title and Status are
// the values the task was created with; instance edits never reach them.
type TaskLineage struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskInstance is the appearance of a lineage on one page.
type TaskInstance struct {
	ID        int64  `json:"id"`
	PageID    int64  `json:"page_id"`
	LineageID int64  `json:"lineage_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
}

// InstanceRow is a TaskInstance joined with its page date and the creation
// time of its lineage, as returned by listings and history.
type InstanceRow struct {
	InstanceID       int64     `json:"instance_id"`
	PageID           int64     `json:"page_id"`
	LineageID        int64     `json:"lineage_id"`
	PageDate         time.Time `json:"page_date"`
	Title            string    `json:"title"`
	Status           string    `json:"status"`
	LineageCreatedAt time.Time `json:"lineage_created_at"`
}

// HistoryEntry is one step of a lineage's history.
type HistoryEntry = InstanceRow

type PageWithTasks struct {
	Page  Page           `json:"page"`
	Tasks []TaskInstance `json:"tasks"`
}

type SearchFilter struct {
	PageID   *int64     `json:"page_id"`
	PageDate *time.Time `json:"page_date"`
	Title    string     `json:"title"`
}
