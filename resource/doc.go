// Package resource provides the handle table backing own<T>/borrow<T>
// marshaling: an opaque Handle maps to a host-side Go value, with borrow
// counts tracked so an owning handle can't be dropped while a borrow is
// outstanding.
//
// The marshaling core itself only ever sees the wire representation of a
// handle (an opaque u32); it never looks inside this table. A host
// registers resource values here and hands out the resulting Handle as
// the own<T>/borrow<T> value the core lifts and lowers.
//
// # Handle Table
//
// HandleTable maps integer handles to Go values:
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle
//	handle := table.Insert(typeID, myValue)
//
//	// Retrieve value by handle
//	value, ok := table.Get(handle)
//
//	// Remove and get value (for ownership transfer)
//	value, ok := table.Remove(handle)
//
// # Type Safety
//
// Handles are typed - each resource type gets a unique type ID, assigned
// by cabi.ResourceRegistry.Declare when the resource's type is declared:
//
//	fileHandle := table.Insert(FileTypeID, file)
//
//	value, ok := table.GetTyped(fileHandle, FileTypeID) // ok
//	value, ok := table.GetTyped(fileHandle, SocketTypeID) // !ok
//
// # Borrow Tracking
//
// Borrow and ReturnBorrow on the Backend track outstanding borrows; Drop
// refuses to remove a handle with a nonzero borrow count, matching the
// canonical ABI's borrow-scoping invariant.
//
// # Memory Management
//
// Resources are not automatically garbage collected. The host must
// explicitly call Remove() when the guest drops an owned handle. Failure
// to do so leaks the resource. Call table.Close() to release everything
// held by a table being torn down.
package resource
