package handler

import (
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/pkg/httpcontext"
	taskUC "github.com/fastygo/todo/usecase/task"
)

// TaskParam names the task id route parameter.
const TaskParam = "taskId"

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get one of the caller's tasks
// @Tags tasks
// @Router /todo/app/tasks/{taskId} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	caller, ok := h.principal(ctx)
	if !ok {
		return
	}
	id, ok := h.pathID(ctx, TaskParam)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, id, caller.UserID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTaskResponse(task))
}

// @Summary List the caller's tasks
// @Tags tasks
// @Router /todo/app/tasks/ [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	caller, ok := h.principal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, caller.UserID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTaskListResponse(tasks))
}

// @Summary Create task
// @Tags tasks
// @Router /todo/app/tasks/ [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	caller, ok := h.principal(ctx)
	if !ok {
		return
	}
	var req transport.TaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := h.uc.CreateTask(stdCtx, caller.UserID, req.Title, req.Description)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondCreated(ctx, fmt.Sprintf("%s/tasks/%d", BasePath, id))
}

// @Summary Replace the title and description of a task
// @Tags tasks
// @Router /todo/app/tasks/{taskId} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	caller, ok := h.principal(ctx)
	if !ok {
		return
	}
	id, ok := h.pathID(ctx, TaskParam)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	// A foreign or missing task reports not found even when the body is malformed.
	var req transport.TaskRequest
	if perr := parseBody(ctx, &req); perr != nil {
		if err := h.uc.CheckOwnership(stdCtx, id, caller.UserID); err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		h.respondError(ctx, stdCtx, perr)
		return
	}

	if err := h.uc.UpdateTask(stdCtx, id, caller.UserID, req.Title, req.Description); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Delete task
// @Tags tasks
// @Router /todo/app/tasks/{taskId} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	caller, ok := h.principal(ctx)
	if !ok {
		return
	}
	id, ok := h.pathID(ctx, TaskParam)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.DeleteTask(stdCtx, id, caller.UserID); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}
