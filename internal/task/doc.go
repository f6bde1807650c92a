// Package task decides what a principal may do with task records and carries
// out the allowed operations against a Repository.
//
// The rules live in pure functions (ListFilter, DecideRead, DecideUpdate,
// DecideDelete, Apply, NewTask) that take the current time as a parameter.
// Engine wraps them with one store read and, for mutations, one write.
//
// Denials are values, not errors: Engine methods return a Result whose
// Denied field names the Reason. A non-nil error always means a store fault.
//
// Rules:
//   - Anyone authenticated may create. New tasks are open and owned by the creator.
//   - Admins list everything. Others list only their own open tasks.
//   - Others may read only their own open tasks; a closed task is hidden
//     from its non-admin owner too.
//   - Others may only close their own tasks. Reopening needs an admin.
//   - Only admins delete.
package task
