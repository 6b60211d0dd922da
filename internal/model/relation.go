package model

// UserProjectRelation links a user to a project. The pair is the
// composite primary key; the row carries no other payload, so existence
// alone means "associated".
type UserProjectRelation struct {
	UserID    int64 `json:"userId"`
	ProjectID int64 `json:"projectId"`
}
