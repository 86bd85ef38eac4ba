package models

// All lists every table owned by this service, in migration order.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&Event{},
		&Committee{},
		&Submission{},
		&SubmissionAuthor{},
		&ReviewAssignment{},
		&Evaluation{},
		&SubmissionStatusHistory{},
		&Notification{},
	}
}
