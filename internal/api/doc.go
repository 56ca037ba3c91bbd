// Package api exposes the task service over HTTP. It parses paths, query
// parameters and JSON bodies, dispatches to service.TaskService, and maps
// service error kinds onto status codes with a {"message": ...} body.
package api
