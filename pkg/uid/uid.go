package uid

// UID generates unique row identifiers.
// Satisfied by *sonyflake.Sonyflake.
type UID interface {
	NextID() (uint64, error)
}
