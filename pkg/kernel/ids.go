package kernel

import "github.com/google/uuid"

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

type TaskID string

func NewTaskID(id string) TaskID { return TaskID(id) }
func (t TaskID) String() string  { return string(t) }
func (t TaskID) IsEmpty() bool   { return string(t) == "" }

// GenerateTaskID returns a fresh random task ID.
func GenerateTaskID() TaskID { return TaskID(uuid.NewString()) }

// NewID returns a fresh random identifier for checklists, entries and
// connections.
func NewID() string { return uuid.NewString() }
