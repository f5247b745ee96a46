package project

// Project groups activities for reporting. Name and color are display-only
// passthrough values.
type Project struct {
	ID     int
	UserID int
	Name   string
	Color  string
}
