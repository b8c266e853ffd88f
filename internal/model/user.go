package model

// UserRole mirrors the role claim issued by the platform's auth service.
// The engine never creates users; it only keys assignments by user id.
type UserRole string

const (
	Student  UserRole = "student"
	Reviewer UserRole = "reviewer"
	Admin    UserRole = "admin"
)
