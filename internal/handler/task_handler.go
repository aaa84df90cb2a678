package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taskhub/internal/app/task"
	"taskhub/internal/pkg/errs"
	"taskhub/internal/pkg/logx"
	"taskhub/internal/pkg/req"
	"taskhub/internal/pkg/resp"
	"taskhub/internal/pkg/validate"
)

// HandleListTasks returns one page of tasks plus the pagination envelope.
// Supports ?page=, ?limit=, and ?search= (case-insensitive substring over
// title and description).
func HandleListTasks(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := task.ParseListQuery(r.URL.Query(), deps.Config.DefaultPageSize)

		tasks, pagination, err := deps.Tasks.List(r.Context(), q)
		if err != nil {
			logx.Error(err, "list tasks: query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondJSON(w, r, http.StatusOK, map[string]any{
			"tasks":      tasks,
			"pagination": pagination,
		})
	}
}

type createTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HandleCreateTask validates and inserts a new task, completed=false.
func HandleCreateTask(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input createTaskInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := validate.TaskTitle(input.Title); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := validate.TaskDescription(input.Description); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		created, err := deps.Tasks.Create(r.Context(), input.Title, input.Description)
		if err != nil {
			logx.Error(err, "create task: insert failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondJSON(w, r, http.StatusCreated, created)
	}
}

type updateTaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// HandleUpdateTask applies a partial update: title, description, and completed
// are each optional, and a non-boolean completed is rejected by the decoder.
func HandleUpdateTask(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := uuid.Parse(id); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrTaskNotFound))
			return
		}

		var input updateTaskInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Title != nil {
			if customErr := validate.TaskTitle(*input.Title); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
		}

		if input.Description != nil {
			if customErr := validate.TaskDescription(*input.Description); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
		}

		updated, err := deps.Tasks.ApplyUpdate(r.Context(), id, task.Update{
			Title:       input.Title,
			Description: input.Description,
			Completed:   input.Completed,
		})

		if err != nil {
			if errors.Is(err, task.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrTaskNotFound))
				return
			}

			logx.Error(err, "update task: apply failed", "task_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondJSON(w, r, http.StatusOK, updated)
	}
}

// HandleDeleteTask removes a task by id. The response is 204 whether or not
// the id existed.
func HandleDeleteTask(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := uuid.Parse(id); err != nil {
			resp.RespondNoContent(w)
			return
		}

		if err := deps.Tasks.Delete(r.Context(), id); err != nil {
			logx.Error(err, "delete task: delete failed", "task_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondNoContent(w)
	}
}
