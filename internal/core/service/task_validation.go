package service

import (
	"strings"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/ports"
)

func categoryMessage() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return "must be one of: " + strings.Join(names, " ")
}

// newTask validates in and builds an unsaved task from it.
func newTask(in ports.CreateTaskInput) (*domain.Task, error) {
	verr := domain.NewValidationError()

	if strings.TrimSpace(in.Title) == "" {
		verr.Add("title", "is required")
	}

	category := domain.Category(in.Category)
	if in.Category == "" {
		verr.Add("category", "is required")
	} else if !category.Valid() {
		verr.Add("category", categoryMessage())
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
	}

	if in.DueDate == "" {
		verr.Add("dueDate", "is required")
	} else if due, err := domain.ParseDueDate(in.DueDate); err != nil {
		verr.Add("dueDate", "must be a valid date")
	} else {
		task.DueDate = due
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return task, nil
}

func validateUpdate(in ports.UpdateTaskInput) error {
	verr := domain.NewValidationError()

	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		verr.Add("title", "must not be empty")
	}
	if in.Category != nil && !domain.Category(*in.Category).Valid() {
		verr.Add("category", categoryMessage())
	}
	if in.DueDate != nil {
		if _, err := domain.ParseDueDate(*in.DueDate); err != nil {
			verr.Add("dueDate", "must be a valid date")
		}
	}
	return verr.OrNil()
}

// applyUpdate copies the supplied fields of in onto task. in must already have
// passed validateUpdate.
func applyUpdate(task *domain.Task, in ports.UpdateTaskInput) error {
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.DueDate != nil {
		due, err := domain.ParseDueDate(*in.DueDate)
		if err != nil {
			return err
		}
		task.DueDate = due
	}
	if in.Category != nil {
		task.Category = domain.Category(*in.Category)
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
	return nil
}
