// Package domain contains the task entity, paging and sorting value types,
// and the validation errors shared by every layer.
package domain
