package model

import "time"

// Todo is a hierarchical to-do item. ParentID makes the hierarchy
// self-referential; deleting a parent removes its subtree.
//
// Version is the optimistic-concurrency marker: it starts at 1 and is
// bumped by exactly one increment as part of every successful mutating
// write. It doubles as the ETag on the HTTP surface.
type Todo struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Text string `gorm:"index;not null" json:"text"`
	Done bool   `gorm:"default:false" json:"done"`

	ParentID *int   `gorm:"column:parent_id;index" json:"parentId"`
	Children []Todo `gorm:"foreignKey:ParentID" json:"subTodos"`

	UserID int   `gorm:"column:user_id;index" json:"userId"`
	Owner  *User `gorm:"foreignKey:UserID" json:"-"`

	Version int `gorm:"default:1" json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TodoRead is the outward representation, with owner details flattened
// to the minimal shape the frontend expects.
type TodoRead struct {
	ID        int          `json:"id"`
	Text      string       `json:"text"`
	Done      bool         `json:"done"`
	ParentID  *int         `json:"parentId"`
	UserID    int          `json:"userId"`
	Owner     *UserMinimal `json:"owner,omitempty"`
	Version   int          `json:"version"`
	SubTodos  []TodoRead   `json:"subTodos"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func NewTodoRead(t *Todo) *TodoRead {
	if t == nil {
		return nil
	}
	read := &TodoRead{
		ID:        t.ID,
		Text:      t.Text,
		Done:      t.Done,
		ParentID:  t.ParentID,
		UserID:    t.UserID,
		Owner:     NewUserMinimal(t.Owner),
		Version:   t.Version,
		SubTodos:  make([]TodoRead, 0, len(t.Children)),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	for i := range t.Children {
		read.SubTodos = append(read.SubTodos, *NewTodoRead(&t.Children[i]))
	}
	return read
}

func NewTodoReads(todos []Todo) []TodoRead {
	reads := make([]TodoRead, 0, len(todos))
	for i := range todos {
		reads = append(reads, *NewTodoRead(&todos[i]))
	}
	return reads
}
