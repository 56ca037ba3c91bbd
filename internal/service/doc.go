// Package service contains the task use cases. It sits between the HTTP
// layer and the store: it validates input, converts between wire DTOs and
// domain tasks, runs mutations inside transactions and reports every failure
// as a *TaskServiceError carrying an explicit ErrorKind.
//
// Key components:
//
// 1. TaskService: list, get, create, update and delete operations.
//
// 2. Conversion layer (dto.go): TaskRequest, TaskResponse, TaskPageResponse
// and the zone-less LocalDateTime used for due dates.
//
// 3. Error handling: callers branch on KindOf(err) or errors.Is against
// ErrInvalidArgument, ErrTaskNotFound and ErrTaskExists. Messages on
// classified errors are safe to show to clients.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete store implementation.
package service
