package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	TokenRepository         *TokenRepository
	ClassroomRepository     *ClassroomRepository
	ClassroomTaskRepository *ClassroomTaskRepository
	TaskRepository          *TaskRepository
	CategoryRepository      *CategoryRepository
	FileRepository          *FileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		TokenRepository:         NewTokenRepository(db),
		ClassroomRepository:     NewClassroomRepository(db),
		ClassroomTaskRepository: NewClassroomTaskRepository(db),
		TaskRepository:          NewTaskRepository(db),
		CategoryRepository:      NewCategoryRepository(db),
		FileRepository:          NewFileRepository(db),
	}
}
