package models

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Submission struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	FileName    *string   `json:"fileName"`
	FilePath    *string   `json:"filePath"`
	VideoName   *string   `json:"videoName"`
	VideoPath   *string   `json:"videoPath"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (submission Submission) IsApproved() bool {
	return submission.Status == StatusApproved
}

func (submission Submission) HasFile() bool {
	return submission.FilePath != nil && *submission.FilePath != ""
}

func (submission Submission) HasVideo() bool {
	return submission.VideoPath != nil && *submission.VideoPath != ""
}
