// Package models はAPIとストアで共有するデータ構造を定義します。
package models

// Task は ToDo アイテムを表します。UserID は所有ユーザーです。
type Task struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	IsComplete bool   `json:"isComplete"`
	UserID     int    `json:"userId"`
}

// CreateTaskRequest は POST /items のボディです。
type CreateTaskRequest struct {
	Name       string `json:"name"`
	IsComplete bool   `json:"isComplete"`
}

// UpdateTaskRequest は PUT /items/:id のボディです。
// Name は省略可能、IsComplete は常に上書きされます。
type UpdateTaskRequest struct {
	Name       *string `json:"name"`
	IsComplete bool    `json:"isComplete"`
}
