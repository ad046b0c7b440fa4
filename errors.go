package quadtree

import "fmt"

type LockedIndexError struct{}

func (e LockedIndexError) Error() string {
	return fmt.Sprintf("index is locked by an open range cursor")
}

type OutOfBoundsError struct {
	Extent, Root Extent
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("extent %+v is not inside root %+v", e.Extent, e.Root)
}

type InvalidExtentError struct {
	Extent Extent
}

func (e InvalidExtentError) Error() string {
	return fmt.Sprintf("extent has invalid size: %+v", e.Extent)
}

type EntityExistsError struct {
	Entity any
	Extent Extent
}

func (e EntityExistsError) Error() string {
	return fmt.Sprintf("entity (%v) already indexed at %+v", e.Entity, e.Extent)
}
